// Stub command: run the in-memory entity service for offline development.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/stub"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newStubCmd() *cobra.Command {
	var addr, token, username, seedFile string
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run an in-memory entity service",
		Long: `Stub serves the full entity service contract from process memory: the
/me/data graph, per-kind create/update/delete, and both reorder endpoints,
with the same ordering and cascade semantics as the real service. State is
lost when the process exits.

Point the client at it with service_url: http://localhost:8600 (or the
QUILL_SERVICE_URL environment variable).`,
		Example: `  quill stub --username demo
  quill stub --addr :9000 --token secret --seed fixtures/demo.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := &types.UserData{
				Username: username,
				Projects: map[string]*types.Project{
					"default": {ProjectID: "default", Name: "Default Project"},
				},
			}
			if seedFile != "" {
				raw, err := os.ReadFile(seedFile)
				if err != nil {
					return fmt.Errorf("reading seed file: %w", err)
				}
				data = &types.UserData{}
				if err := json.Unmarshal(raw, data); err != nil {
					return fmt.Errorf("parsing seed file: %w", err)
				}
				if data.Username == "" {
					data.Username = username
				}
			}

			srv := stub.New(data, token, log)
			fmt.Fprintf(cmd.OutOrStdout(), "Stub entity service for %s on %s\n", data.Username, addr)
			return srv.Start(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8600", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "require this bearer token on every request")
	cmd.Flags().StringVar(&username, "username", "demo", "username the stub serves")
	cmd.Flags().StringVar(&seedFile, "seed", "", "JSON file with a full user graph to seed from")
	return cmd
}
