package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for llmlog",
	Long:  `Display detailed help for all llmlog commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				target.Help()
				return
			}
		}
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
██╗     ██╗     ███╗   ███╗██╗      ██████╗  ██████╗
██║     ██║     ████╗ ████║██║     ██╔═══██╗██╔════╝
██║     ██║     ██╔████╔██║██║     ██║   ██║██║  ███╗
██║     ██║     ██║╚██╔╝██║██║     ██║   ██║██║   ██║
███████╗███████╗██║ ╚═╝ ██║███████╗╚██████╔╝╚██████╔╝
╚══════╝╚══════╝╚═╝     ╚═╝╚══════╝ ╚═════╝  ╚═════╝

llmlog - LLM call log importer and analyzer

COMMANDS:

  import timing <file>    Import a timing log
    --format              csv|jsonl|pattern (default by extension)
    --pattern             Regex with named groups llm_name, duration_ms, call_timestamp
    --no-raw              Do not keep the raw source line
  import session <file>   Import a session transcript (.json)
  import auto <path>      Import a file, every importable file in a directory, or a glob
                          ('logs/**/*.jsonl')

  perf                    Per-model count and min/avg/P90/max duration (ms)
    --llm                 Model name contains
    --model               Exact model name
    --from, --to          Time range (YYYY-MM-DD or ISO-8601, inclusive)
    -p, --percentile      Percentile to report (default 0.90)

  sessions                List imported sessions
  sessions rm <id>        Delete a session and its interactions
  show <id>               Show the interactions of a session

  review                  Interactions with previews and the OK score
    --llm, --model        Model filters
    --situation           Situation id
    --from, --to          Time range
  export                  Same filters as review, full text as CSV
    --out                 Output file (default stdout)
  models                  Known models and situations

  annotate <id>           Rate or comment an interaction
    -r, --rating          okay|not_okay|unset
    -c, --comment         Comment text
    --clear-comment       Remove the comment

  browse                  Interactive session browser
    ←/→ or p/n            Previous/next interaction
    r                     Cycle rating okay → not_okay → unset
    c                     Edit comment (ctrl+s saves, esc cancels)
    esc                   Back to the session list
    q                     Quit

  schema                  Database path and schema version
  version                 Version information
  help                    Show this help

GLOBAL FLAGS:
  --db                    Database file (default ~/.llmlog/llmlog.db, or $LLMLOG_DB)
  -o, --output            table|plain|json (default table on a terminal)
  -v, --verbose           Mirror log output to stderr

`)
}
