package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/client"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const usage = `usage: resumectl [global flags] <command> [flags]

commands:
  analyze   --text TEXT | --file PATH [--name NAME] [--email EMAIL]
  history   [--page N] [--limit N] [--skills a,b] [--roles a,b] [--min-score N] [--max-score N] [--sort-by F] [--sort-order asc|desc]
  show      ID
  filters
  local list
  local clear

global flags:
`

type globals struct {
	server      string
	timeout     time.Duration
	mode        string
	historyFile string
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("resumectl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	g := globals{}
	defaultHistory, _ := client.DefaultLocalHistoryPath()
	fs.StringVarP(&g.server, "server", "s", envOr("RESUME_API_URL", "http://localhost:5000"), "API base URL")
	fs.DurationVar(&g.timeout, "timeout", 2*time.Minute, "request timeout")
	fs.StringVarP(&g.mode, "mode", "m", string(client.HistoryModeSync), "history mode: sync or local")
	fs.StringVar(&g.historyFile, "history-file", defaultHistory, "local history file")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := client.ParseHistoryMode(g.mode)
	if err != nil {
		return err
	}
	if g.historyFile == "" {
		return errors.New("no local history file, set --history-file")
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	api := client.New(g.server, g.timeout)
	local := client.NewLocalHistory(g.historyFile)

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "analyze":
		return runAnalyze(ctx, api, local, cmdArgs, out)
	case "history":
		return runHistory(ctx, api, local, mode, cmdArgs, out)
	case "show":
		return runShow(ctx, api, local, mode, cmdArgs, out)
	case "filters":
		opts, err := api.FilterOptions(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, opts)
	case "local":
		return runLocal(local, cmdArgs, out)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAnalyze(ctx context.Context, api *client.Client, local *client.LocalHistory, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	var req client.AnalyzeRequest
	fs.StringVarP(&req.Text, "text", "t", "", "resume text")
	fs.StringVarP(&req.FilePath, "file", "f", "", "PDF or TXT resume to upload")
	fs.StringVar(&req.Name, "name", "", "submitter name")
	fs.StringVar(&req.Email, "email", "", "submitter email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Text == "" && req.FilePath == "" {
		return errors.New("analyze needs --text or --file")
	}

	res, err := api.Analyze(ctx, req)
	if err != nil {
		return err
	}
	if _, err := local.Add(res.ID, res.Summary); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not update local history:", err)
	}
	if !res.Recorded {
		fmt.Fprintln(os.Stderr, "warning: analysis was not recorded in server history")
	}
	return printJSON(out, res.Summary)
}

func runHistory(ctx context.Context, api *client.Client, local *client.LocalHistory, mode client.HistoryMode, args []string, out io.Writer) error {
	if mode == client.HistoryModeLocal {
		entries, err := local.List()
		if err != nil {
			return err
		}
		return printJSON(out, entries)
	}

	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	var q client.HistoryQuery
	var minScore, maxScore float64
	fs.IntVar(&q.Page, "page", 0, "page number")
	fs.IntVar(&q.Limit, "limit", 0, "page size")
	fs.StringSliceVar(&q.Skills, "skills", nil, "skills to match (any)")
	fs.StringSliceVar(&q.SuggestedRoles, "roles", nil, "suggested roles to match (any)")
	fs.Float64Var(&minScore, "min-score", 0, "minimum overall score")
	fs.Float64Var(&maxScore, "max-score", 0, "maximum overall score")
	fs.StringVar(&q.SortBy, "sort-by", "", "createdAt or overallScore")
	fs.StringVar(&q.SortOrder, "sort-order", "", "asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Changed("min-score") {
		q.MinScore = &minScore
	}
	if fs.Changed("max-score") {
		q.MaxScore = &maxScore
	}

	page, err := api.History(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(out, page)
}

func runShow(ctx context.Context, api *client.Client, local *client.LocalHistory, mode client.HistoryMode, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("show needs exactly one id")
	}
	if mode == client.HistoryModeLocal {
		e, ok, err := local.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no local entry %q", args[0])
		}
		return printJSON(out, e)
	}
	detail, err := api.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(out, detail)
}

func runLocal(local *client.LocalHistory, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("local needs list or clear")
	}
	switch args[0] {
	case "list":
		entries, err := local.List()
		if err != nil {
			return err
		}
		return printJSON(out, entries)
	case "clear":
		if err := local.Clear(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "local history cleared")
		return err
	default:
		return fmt.Errorf("unknown local command %q", args[0])
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
