package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intelfx/bfs/bftw"
	"github.com/intelfx/bfs/internal/logx"
)

type walkOptions struct {
	threads    int
	follow     bool
	followAll  bool
	sort       bool
	depthFirst bool
	ids        bool
	eds        bool
	nopenfd    int
	detectLoop bool
	skipMounts bool
	recover    bool
	postOrder  bool
	logLevel   string
}

var walkOpts walkOptions

func registerWalkFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntVarP(&walkOpts.threads, "threads", "j", 4, "number of worker goroutines for directory/stat I/O")
	f.BoolVarP(&walkOpts.follow, "follow", "L", false, "follow symlinks named directly on the command line")
	f.BoolVar(&walkOpts.followAll, "follow-all", false, "follow symlinks encountered at any depth")
	f.BoolVarP(&walkOpts.sort, "sort", "s", false, "visit siblings in sorted order")
	f.BoolVarP(&walkOpts.depthFirst, "depth-first", "d", false, "use depth-first traversal instead of breadth-first")
	f.BoolVar(&walkOpts.ids, "ids", false, "use iterative deepening search")
	f.BoolVar(&walkOpts.eds, "eds", false, "use exponential deepening search")
	f.IntVarP(&walkOpts.nopenfd, "nopenfd", "n", 256, "maximum number of simultaneously open file descriptors")
	f.BoolVar(&walkOpts.detectLoop, "detect-cycles", true, "abort a subtree that revisits one of its own ancestors")
	f.BoolVar(&walkOpts.skipMounts, "xdev", false, "don't descend into other filesystems")
	f.BoolVar(&walkOpts.recover, "recover", true, "report per-entry errors instead of aborting the whole walk")
	f.BoolVar(&walkOpts.postOrder, "depth-order", false, "visit a directory's contents before the directory itself")
	f.StringVar(&walkOpts.logLevel, "log-level", "warning", "log level: none, error, warning, info, debug")
}

func runWalk(c *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	var level logx.LogLevel
	if err := level.Parse(walkOpts.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", walkOpts.logLevel, err)
	}

	flags := bftw.RECOVER
	if walkOpts.sort {
		flags = flags.Add(bftw.SORT)
	}
	if walkOpts.follow {
		flags = flags.Add(bftw.FOLLOW_ROOTS)
	}
	if walkOpts.followAll {
		flags = flags.Add(bftw.FOLLOW_ALL)
	}
	if walkOpts.detectLoop {
		flags = flags.Add(bftw.DETECT_CYCLES)
	}
	if walkOpts.skipMounts {
		flags = flags.Add(bftw.SKIP_MOUNTS)
	}
	if walkOpts.postOrder {
		flags = flags.Add(bftw.POST_ORDER)
	}
	if !walkOpts.recover {
		flags = flags.Remove(bftw.RECOVER)
	}

	strategy := bftw.BFS
	switch {
	case walkOpts.ids:
		strategy = bftw.IDS
	case walkOpts.eds:
		strategy = bftw.EDS
	case walkOpts.depthFirst:
		strategy = bftw.DFS
	}

	logger := logx.New(os.Stderr, level, "")

	walkArgs := bftw.Args{
		Paths:     args,
		Flags:     flags,
		Strategy:  strategy,
		Threads:   walkOpts.threads,
		OpenFiles: walkOpts.nopenfd,
		Logger:    logger,
		Callback:  printEntry,
	}
	return bftw.Walk(walkArgs)
}

func printEntry(e *bftw.Entry) bftw.Action {
	if e.Err != nil {
		fmt.Fprintf(os.Stderr, "bfind: %s: %v\n", e.Path, e.Err)
		return bftw.EAction.Continue()
	}
	want := bftw.EVisit.Pre()
	if walkOpts.postOrder && e.Type == bftw.EType.Dir() {
		want = bftw.EVisit.Post()
	}
	if e.Visit == want {
		fmt.Println(e.Path)
	}
	return bftw.EAction.Continue()
}
