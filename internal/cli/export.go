package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskpad/internal/task"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var format, filterName string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks to stdout as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := task.ParseFilter(filterName)
			if err != nil {
				return err
			}
			return withApp(flags, func(a *app) error {
				tasks := task.Project(a.store.All(), filter)
				var data []byte
				switch format {
				case "json":
					data, err = json.MarshalIndent(tasks, "", "  ")
					if err == nil {
						data = append(data, '\n')
					}
				case "yaml", "yml":
					data, err = yaml.Marshal(tasks)
				default:
					return fmt.Errorf("unknown format %q (want json or yaml)", format)
				}
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "all, active or completed")
	return cmd
}
