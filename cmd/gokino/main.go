package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/auth"
	"github.com/alvarorichard/gokino/internal/config"
	"github.com/alvarorichard/gokino/internal/refcache"
	"github.com/alvarorichard/gokino/internal/tui"
	"github.com/alvarorichard/gokino/internal/urlstate"
	"github.com/alvarorichard/gokino/internal/util"
	"github.com/alvarorichard/gokino/internal/version"
)

func main() {
	// Define all flags in one place
	versionFlag := flag.Bool("version", false, "show version information")
	debugFlag := flag.Bool("debug", false, "enable debug mode")
	perfFlag := flag.Bool("perf", false, "print API timing statistics on exit")
	helpFlag := flag.Bool("help", false, "show help message")
	altHelpFlag := flag.Bool("h", false, "show help message")
	configFlag := flag.String("config", "", "TOML configuration file")
	locationFlag := flag.String("location", "", "location to open, e.g. gokino:///movies?pageNo=2")
	pickFlag := flag.Bool("pick", false, "choose a search result with a fuzzy finder")

	var ff filterFlags
	flag.StringVar(&ff.years, "years", "", "release years, e.g. 2000-2010")
	flag.StringVar(&ff.kp, "kp", "", "kinopoisk rating range, e.g. 7-10")
	flag.StringVar(&ff.countries, "country", "", "comma separated countries")
	flag.StringVar(&ff.genres, "genre", "", "comma separated genres")
	flag.StringVar(&ff.types, "type", "", "comma separated types")
	flag.StringVar(&ff.networks, "network", "", "comma separated networks")
	flag.StringVar(&ff.ages, "age", "", "comma separated MPAA ratings")
	flag.IntVar(&ff.page, "page", 1, "page number")
	flag.IntVar(&ff.size, "size", 0, "page size")

	flag.Usage = util.ShowBeautifulHelp
	flag.Parse()

	if *versionFlag || version.HasVersionArg() {
		version.ShowVersion()
		return
	}
	if *helpFlag || *altHelpFlag {
		util.ShowBeautifulHelp()
		return
	}

	util.SetDebugMode(*debugFlag)
	util.InitLogger()
	util.PerfEnabled = *perfFlag
	if *perfFlag {
		defer util.PrintReport()
	}
	util.Debug("starting", "version", version.Version)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fail(err)
	}
	cfg.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.ClientOptions())

	args := flag.Args()
	command := "tui"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cli := &cli{client: client, out: os.Stdout, pick: *pickFlag}
	switch command {
	case "tui":
		err = runTUI(ctx, cfg, client, *locationFlag)
	case "search":
		err = cli.search(ctx, strings.Join(args, " "), ff.spec(), ff.pageSpec())
	case "random":
		err = cli.random(ctx, ff.spec())
	case "values":
		if len(args) != 1 {
			err = fmt.Errorf("usage: gokino values <countries|genres|types|networks|all>")
			break
		}
		err = cli.values(ctx, args[0])
	case "movie":
		if len(args) != 1 {
			err = fmt.Errorf("usage: gokino movie <id>")
			break
		}
		err = cli.movie(ctx, args[0])
	default:
		util.ShowBeautifulHelp()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func runTUI(ctx context.Context, cfg *config.Config, client *api.Client, location string) error {
	start, err := urlstate.ParseLocation(location)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Deps{
		Source:       client,
		Refs:         refcache.New(client),
		Gate:         auth.NewGate(cfg.Auth.Username, cfg.Auth.Password),
		Start:        start,
		Debounce:     cfg.Debounce(),
		LoadingDelay: cfg.LoadingDelay(),
		ClearOnError: cfg.UI.ClearOnError,
	})
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, util.ErrorHandler(err))
	if util.PerfEnabled {
		util.PrintReport()
	}
	os.Exit(1)
}
