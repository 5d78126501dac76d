package handoffs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hanwool/handoff-api/cmd/cli/config"
	"github.com/hanwool/handoff-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type handoff struct {
	ID          int       `json:"id"`
	PatientName string    `json:"patientName"`
	Room        string    `json:"room"`
	Diagnosis   string    `json:"diagnosis"`
	Content     string    `json:"content"`
	Ward        string    `json:"ward"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Init registers the handoff commands on the root command.
func Init(rootCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "handoffs",
		Short: "Manage patient-handoff notes for your ward",
	}
	cmd.AddCommand(listCmd(), createCmd(), deleteCmd())
	rootCmd.AddCommand(cmd)
}

func listCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your ward's handoff notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}

			var out struct {
				Items []handoff `json:"items"`
				Total int       `json:"total"`
			}
			path := fmt.Sprintf("/handoffs?limit=%d&offset=%d", limit, offset)
			if err := apiRequest(http.MethodGet, path, token, nil, &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Items))
			for _, h := range out.Items {
				rows = append(rows, []interface{}{
					h.ID, h.PatientName, h.Room, h.Diagnosis, h.Content,
					h.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable([]string{"ID", "Patient", "Room", "Diagnosis", "Note", "Created"}, rows)
			fmt.Printf("%d of %d notes\n", len(out.Items), out.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum notes to fetch")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset for pagination")

	return cmd
}

func createCmd() *cobra.Command {
	var patient, room, diagnosis, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a handoff note in your ward",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}

			payload := map[string]string{
				"patientName": patient,
				"room":        room,
				"diagnosis":   diagnosis,
				"content":     content,
			}
			var out handoff
			if err := apiRequest(http.MethodPost, "/handoffs", token, payload, &out); err != nil {
				return err
			}
			fmt.Printf("Created handoff #%d for %s (%s ward)\n", out.ID, out.PatientName, out.Ward)
			return nil
		},
	}

	cmd.Flags().StringVar(&patient, "patient", "", "Patient name")
	cmd.Flags().StringVar(&room, "room", "", "Room number")
	cmd.Flags().StringVar(&diagnosis, "diagnosis", "", "Diagnosis")
	cmd.Flags().StringVar(&content, "note", "", "Handoff note content")
	cmd.MarkFlagRequired("patient")
	cmd.MarkFlagRequired("note")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a handoff note in your ward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := config.LoadToken()
			if token == "" {
				return fmt.Errorf("not logged in")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := apiRequest(http.MethodDelete, fmt.Sprintf("/handoffs/%d", id), token, nil, nil); err != nil {
				return err
			}
			fmt.Printf("Deleted handoff #%d\n", id)
			return nil
		},
	}
}

func apiRequest(method, path, token string, payload, out interface{}) error {
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
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}
