package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	zklang "github.com/Zklib/zklang"
	"github.com/Zklib/zklang/field"
	"github.com/Zklib/zklang/programs"
)

var rootCmd = &cobra.Command{
	Use:          "zklang",
	Short:        "A compiler from the typed circuit DSL to rank-1 constraint systems.",
	SilenceUsage: true,
}

var checkCmd = &cobra.Command{
	Use:   "check <program> [inputs...]",
	Short: "Compile a built-in program, solve its witness and report satisfiability.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, ok := programs.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown program %q, try `zklang list`", args[0])
		}
		inputs, err := parseInputs(args[1:])
		if err != nil {
			return err
		}
		res, err := zklang.Check(entry.Program, inputs)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if err := os.WriteFile(out, []byte(res.Serialized), 0o644); err != nil {
			return err
		}
		fmt.Println(res.Record(field.BN254().Field()))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in programs.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range programs.Names() {
			entry, _ := programs.Lookup(name)
			fmt.Printf("%-16s %d input(s)\n", entry.Name, entry.Arity)
		}
	},
}

func parseInputs(args []string) ([]*big.Int, error) {
	inputs := make([]*big.Int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part == "" {
				continue
			}
			x, ok := new(big.Int).SetString(part, 10)
			if !ok {
				return nil, fmt.Errorf("invalid input %q", part)
			}
			inputs = append(inputs, x)
		}
	}
	return inputs, nil
}

func init() {
	checkCmd.Flags().StringP("output", "o", "test_cs_in.ppzksnark", "file to write the constraint system to")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
