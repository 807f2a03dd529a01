package cli

import (
	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/config"
	"github.com/hushnote/hushnote/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hushnote",
	Short: "Private meeting recording and transcription pipeline",
	Long: `HushNote records meetings and turns them into speaker-labeled
transcripts and summaries, using locally-hosted models by default.

The pipeline runs as separate steps, each producing a JSON artifact the
next step consumes:

  record -> transcribe -> diarize -> merge -> label -> apply -> summarize`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ~/.hushnote.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
