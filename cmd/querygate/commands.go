package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/querygate"
	"github.com/kailas-cloud/querygate/internal/filterdto"
	"github.com/kailas-cloud/querygate/internal/version"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Render the REST form of a delete-by-query request",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, v, err := buildRequest()
		if err != nil {
			return err
		}
		rest := req.RESTRequest(v)
		out := map[string]any{
			"method":   rest.Method,
			"endpoint": rest.Endpoint,
			"params":   rest.Params,
			"body":     json.RawMessage(rest.Body),
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var wireCmd = &cobra.Command{
	Use:   "wire",
	Short: "Render the binary transport frame of a delete-by-query request",
	Long: `Render the internal binary frame as base64. The frame layout is the
same for every peer version; only the REST surface varies.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, _, err := buildRequest()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := req.Encode(&buf); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(buf.Bytes()))
		return err
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Render a filter tree for a peer version",
	Long: `Render a filter tree, read as JSON from --file or stdin, the way the
given peer version expects it. Filters whose shape changed across
versions (not) are rewritten automatically.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := querygate.ParseVersion(flagVersion)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if flagFile != "" {
			f, err := os.Open(flagFile)
			if err != nil {
				return fmt.Errorf("read filter: %w", err)
			}
			defer f.Close()
			in = f
		}

		var node filterdto.Node
		if err := json.NewDecoder(in).Decode(&node); err != nil {
			return fmt.Errorf("parse filter: %w", err)
		}
		f, err := filterdto.ToFilter(&node)
		if err != nil {
			return err
		}
		rendered, err := querygate.RenderFilter(f, v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and protocol version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "querygate %s (commit %s, built %s)\nprotocol %s\n",
			version.Version, version.Commit, version.Date, querygate.Current)
	},
}

func init() {
	addRequestFlags(restCmd)
	addRequestFlags(wireCmd)
	filterCmd.Flags().StringVarP(&flagVersion, "peer-version", "v", querygate.Current.String(), "peer protocol version (major.minor.patch)")
	filterCmd.Flags().StringVarP(&flagFile, "file", "f", "", "read the filter from a file instead of stdin")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
