// Command querygate previews how a delete-by-query request or a filter
// tree renders for a given peer protocol version.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/querygate"
)

var rootCmd = &cobra.Command{
	Use:   "querygate",
	Short: "version-bridging request and filter encoder",
	Long: `querygate renders delete-by-query requests and filter trees the way a
peer at a specific protocol version expects them: the REST surface
(method, endpoint, params, body), the internal binary frame, or a single
filter's JSON shape.`,
	SilenceUsage: true,
}

// shared flags for request-shaped subcommands
var (
	flagVersion string
	flagIndices []string
	flagTypes   []string
	flagRouting string
	flagQuery   string
	flagFile    string
)

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagVersion, "peer-version", "v", querygate.Current.String(), "peer protocol version (major.minor.patch)")
	cmd.Flags().StringSliceVarP(&flagIndices, "index", "i", nil, "target indices (repeatable); none means all")
	cmd.Flags().StringSliceVarP(&flagTypes, "type", "t", nil, "document types (repeatable)")
	cmd.Flags().StringVarP(&flagRouting, "routing", "r", "", "routing value or comma separated list")
	cmd.Flags().StringVarP(&flagQuery, "query", "q", "", "query source as inline JSON")
	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "read the query source from a file")
}

// buildRequest assembles the request from the shared flags.
func buildRequest() (*querygate.DeleteByQueryRequest, querygate.Version, error) {
	v, err := querygate.ParseVersion(flagVersion)
	if err != nil {
		return nil, 0, err
	}

	req := querygate.NewDeleteByQuery(flagIndices...).
		Types(flagTypes...).
		Routing(flagRouting)

	switch {
	case flagQuery != "" && flagFile != "":
		return nil, 0, fmt.Errorf("--query and --file are mutually exclusive")
	case flagQuery != "":
		req.SourceString(flagQuery)
	case flagFile != "":
		src, err := os.ReadFile(flagFile)
		if err != nil {
			return nil, 0, fmt.Errorf("read query source: %w", err)
		}
		req.SourceBytes(src, querygate.Owned)
	}

	if verr := req.Validate(); verr != nil {
		return nil, 0, verr
	}
	return req, v, nil
}

func main() {
	rootCmd.AddCommand(restCmd, wireCmd, filterCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
