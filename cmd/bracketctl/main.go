// Command bracketctl previews seeding and brackets for a roster file without
// touching the database.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/knightsclub/chessclub/brackets"
	"github.com/knightsclub/chessclub/models"
)

const (
	rosterFlag = "roster"
	typeFlag   = "type"
	outputFlag = "output"

	outputText = "text"
	outputYAML = "yaml"
)

var version = "v0.1.0-dev"

type bracketDump struct {
	Type    models.TournamentType `yaml:"type"`
	Rounds  int                   `yaml:"rounds"`
	Winners []matchDump           `yaml:"winners"`
	Losers  []matchDump           `yaml:"losers,omitempty"`
}

type matchDump struct {
	ID      string `yaml:"id"`
	Round   int    `yaml:"round"`
	Match   int    `yaml:"match"`
	Player1 string `yaml:"player1"`
	Player2 string `yaml:"player2"`
}

func newApp(stdout io.Writer) *cli.App {
	rosterF := &cli.StringFlag{
		Name:     rosterFlag,
		Aliases:  []string{"r"},
		Usage:    "Path to the roster YAML file, or \"-\" for stdin",
		Required: true,
	}

	return &cli.App{
		Name:    "bracketctl",
		Usage:   "Preview chess club seeding and elimination brackets",
		Version: version,
		Writer:  stdout,
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Print the seeding order with resolved ratings",
				Flags: []cli.Flag{rosterF},
				Action: func(cCtx *cli.Context) error {
					users, err := loadRoster(cCtx.String(rosterFlag))
					if err != nil {
						return err
					}
					return printSeeding(cCtx.App.Writer, brackets.SeedOrder(users))
				},
			},
			{
				Name:  "build",
				Usage: "Seed the roster and print the generated bracket",
				Flags: []cli.Flag{
					rosterF,
					&cli.StringFlag{
						Name:    typeFlag,
						Aliases: []string{"t"},
						Usage:   "Bracket type: single or double",
						Value:   string(models.SingleElimination),
					},
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "Output format: text or yaml",
						Value:   outputText,
					},
				},
				Action: func(cCtx *cli.Context) error {
					users, err := loadRoster(cCtx.String(rosterFlag))
					if err != nil {
						return err
					}
					typ := models.TournamentType(cCtx.String(typeFlag))
					b, err := brackets.BuildBracket(brackets.SeededIDs(users), typ)
					if err != nil {
						return fmt.Errorf("build bracket: %w", err)
					}

					names := make(map[int]string, len(users))
					for _, u := range users {
						names[u.ID] = u.DisplayName()
					}
					dump := newBracketDump(typ, b, names)

					switch cCtx.String(outputFlag) {
					case outputText:
						return printBracket(cCtx.App.Writer, dump)
					case outputYAML:
						enc := yaml.NewEncoder(cCtx.App.Writer)
						enc.SetIndent(2)
						if err := enc.Encode(&dump); err != nil {
							return fmt.Errorf("encoding to YAML failed: %w", err)
						}
						return enc.Close()
					default:
						return fmt.Errorf("unknown output format %q", cCtx.String(outputFlag))
					}
				},
			},
		},
	}
}

func loadRoster(path string) ([]*models.User, error) {
	if path == "-" {
		return readRoster(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()
	return readRoster(f)
}

func newBracketDump(typ models.TournamentType, b *brackets.Bracket, names map[int]string) bracketDump {
	slot := func(id *int) string {
		if id == nil {
			return "TBD"
		}
		if name, ok := names[*id]; ok {
			return name
		}
		return fmt.Sprintf("#%d", *id)
	}
	convert := func(ms []models.Match) []matchDump {
		out := make([]matchDump, 0, len(ms))
		for _, m := range ms {
			out = append(out, matchDump{
				ID:      m.ID,
				Round:   m.Round,
				Match:   m.MatchNumber,
				Player1: slot(m.Player1),
				Player2: slot(m.Player2),
			})
		}
		return out
	}

	dump := bracketDump{Type: typ, Rounds: b.Rounds, Winners: convert(b.Winners)}
	if len(b.Losers) > 0 {
		dump.Losers = convert(b.Losers)
	}
	return dump
}

func printSeeding(w io.Writer, seeded []*models.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tID\tNAME\tRATING")
	for i, u := range seeded {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\n", i+1, u.ID, u.DisplayName(), brackets.ResolveRating(u))
	}
	return tw.Flush()
}

func printBracket(w io.Writer, d bracketDump) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s elimination, %d rounds\n", d.Type, d.Rounds)
	writeSide := func(title string, ms []matchDump) {
		sb.WriteString(title + "\n")
		for _, m := range ms {
			fmt.Fprintf(&sb, "  %-6s %s vs %s\n", m.ID, m.Player1, m.Player2)
		}
	}
	writeSide("winners:", d.Winners)
	if len(d.Losers) > 0 {
		writeSide("losers:", d.Losers)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
