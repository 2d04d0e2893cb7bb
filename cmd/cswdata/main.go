package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourorg/cswzk/pkg/bt"
	"github.com/yourorg/cswzk/pkg/config"
	"github.com/yourorg/cswzk/pkg/csw"
	"github.com/yourorg/cswzk/pkg/witness"
)

// contextKey keys values cswdata stores on the command context.
type contextKey string

const startTimeKey contextKey = "start"

func main() {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "cswdata",
		Short: "Assemble Ceased Sidechain Withdrawal witness data",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			_ = godotenv.Load()
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CSW_CONFIG"), "circuit shape YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		buildCmd(&configPath),
		phantomCmd(),
		btRootCmd(),
	)

	rootCmd.SetContext(context.WithValue(context.Background(), startTimeKey, time.Now()))
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("cswdata failed")
	}
}

func buildCmd(configPath *string) *cobra.Command {
	var fixturePath, outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the CSW witness and public inputs from a fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			// decode the fixture into prover data
			data, err := witness.FromFixture(fixturePath, params)
			if err != nil {
				return err
			}

			// assemble and shape-check the witness
			bundle, err := witness.Build(data, params)
			if err != nil {
				return err
			}

			// write witness and public inputs
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			witnessPath := filepath.Join(outDir, "csw_witness.bin")
			publicPath := filepath.Join(outDir, "csw_public.json")

			wBytes, err := bundle.Full.MarshalBinary()
			if err != nil {
				return fmt.Errorf("failed to encode witness: %w", err)
			}
			if err := os.WriteFile(witnessPath, wBytes, 0o644); err != nil {
				return err
			}
			jsonBytes, err := json.MarshalIndent(bundle.Public, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(publicPath, jsonBytes, 0o644); err != nil {
				return err
			}

			log.Info().
				Bool("utxo", data.IsUtxo()).
				Str("witness", witnessPath).
				Str("public", publicPath).
				Dur("elapsed", time.Since(cmd.Context().Value(startTimeKey).(time.Time))).
				Msg("csw witness written")
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "CSW fixture JSON")
	cmd.Flags().StringVar(&outDir, "outdir", "./", "Output directory")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func phantomCmd() *cobra.Command {
	var numCustomFields int

	cmd := &cobra.Command{
		Use:   "phantom",
		Short: "Print the phantom withdrawal certificate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := csw.PhantomWithdrawalCertificate(numCustomFields)
			if err != nil {
				return err
			}
			h, err := w.Hash()
			if err != nil {
				return err
			}
			btRoot := w.BtRoot()
			out := struct {
				BtRoot       string `json:"btRoot"`
				Hash         string `json:"hash"`
				CustomFields int    `json:"customFields"`
			}{btRoot.String(), h.String(), w.NumCustomFields()}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}
	cmd.Flags().IntVar(&numCustomFields, "custom-fields", 1, "number of custom fields")
	return cmd
}

func btRootCmd() *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "btroot",
		Short: "Print the backward-transfer root of a list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(fixturePath)
			if err != nil {
				return fmt.Errorf("failed to read fixture: %w", err)
			}
			var in struct {
				BackwardTransfers []bt.BackwardTransfer `json:"backwardTransfers"`
			}
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("failed to unmarshal fixture: %w", err)
			}
			root, err := bt.MerkleRoot(in.BackwardTransfers)
			if err != nil {
				return err
			}
			log.Debug().Int("transfers", len(in.BackwardTransfers)).Msg("bt root computed")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), root.String())
			return err
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "JSON file with a backwardTransfers list")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
