package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hanwool/handoff-api/cmd/cli/config"
	"github.com/spf13/cobra"
)

// Init registers the account commands on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

func signupCmd() *cobra.Command {
	var accountID, password, name, phone, affiliation, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"accountId":   accountID,
				"password":    password,
				"name":        name,
				"phoneNumber": phone,
				"affiliation": affiliation,
				"role":        role,
			}
			if err := callJSON(http.MethodPost, "/user/signup", "", payload, nil); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			fmt.Println("Account created. Run 'handoff login' to get a token.")
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account id (login handle)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&affiliation, "ward", "", "Ward (affiliation)")
	cmd.Flags().StringVar(&role, "role", "nurse", "Role: doctor or nurse")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("ward")

	return cmd
}

func loginCmd() *cobra.Command {
	var accountID, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				AccessToken string `json:"accessToken"`
			}
			payload := map[string]string{"accountId": accountID, "password": password}
			if err := callJSON(http.MethodPost, "/user/login", "", payload, &out); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if out.AccessToken == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(out.AccessToken); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account id (login handle)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}
			if err := callJSON(http.MethodPost, "/user/logout", token, nil, nil); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			if err := config.ClearToken(); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}
			var out struct {
				AccountID   string `json:"accountId"`
				Name        string `json:"name"`
				Affiliation string `json:"affiliation"`
				Role        string `json:"role"`
			}
			if err := callJSON(http.MethodGet, "/user/info", token, nil, &out); err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			fmt.Printf("%s (%s, %s ward, %s)\n", out.AccountID, out.Name, out.Affiliation, out.Role)
			return nil
		},
	}
}

// callJSON performs one API request. token may be empty for public routes;
// out may be nil when the response body is not needed.
func callJSON(method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
