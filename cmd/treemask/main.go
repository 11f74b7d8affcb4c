// treemask - compare a data file against a mask file
//
// Usage:
//
//	treemask [flags] TREE MASK
//
// TREE and MASK are YAML or JSON files. Use "-" to read TREE from stdin.
// Each deviation of TREE from MASK is printed on its own line.
//
// Exit status is 0 when TREE matches, 1 when there are diffs and 2 on errors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/qri-io/treemask"
	"github.com/qri-io/treemask/fixture"
)

const (
	exitMatch = 0
	exitDiffs = 1
	exitError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("treemask", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		policy   = flags.String("policy", "none", "type comparer: none, exact or subtype")
		sep      = flags.String("sep", "/", "diff path separator")
		color    = flags.Bool("color", false, "colorize output")
		stats    = flags.Bool("stats", false, "print comparison stats")
		jsonMode = flags.Bool("json", false, "print diffs as a JSON array")
	)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: treemask [flags] TREE MASK")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitError
	}

	p, err := treemask.ParsePolicy(*policy)
	if err != nil {
		return fail(stderr, err)
	}

	tree, err := readTree(flags.Arg(0), stdin)
	if err != nil {
		return fail(stderr, err)
	}
	mask, err := fixture.ReadMask(flags.Arg(1))
	if err != nil {
		return fail(stderr, err)
	}

	st := &treemask.Stats{}
	diffs, err := treemask.Compare(tree, mask,
		treemask.OptionPolicy(p),
		treemask.OptionPathSeparator(*sep),
		treemask.OptionSetStats(st),
	)
	if err != nil {
		return fail(stderr, err)
	}

	if *jsonMode {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(diffs); err != nil {
			return fail(stderr, err)
		}
	} else if err := treemask.FormatPretty(stdout, diffs, *color); err != nil {
		return fail(stderr, err)
	}

	if *stats {
		if *color {
			fmt.Fprint(stderr, treemask.FormatPrettyStatsColor(st))
		} else {
			fmt.Fprint(stderr, treemask.FormatPrettyStats(st))
		}
	}

	if diffs.Match() {
		return exitMatch
	}
	return exitDiffs
}

func readTree(path string, stdin io.Reader) (interface{}, error) {
	if path != "-" {
		return fixture.ReadTree(path)
	}
	data, err := ioutil.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return fixture.DecodeTree(data)
}

// fail prints err once prefixed with the command name. treemask errors
// already carry the prefix
func fail(stderr io.Writer, err error) int {
	msg := err.Error()
	if !strings.HasPrefix(msg, "treemask:") {
		msg = "treemask: " + msg
	}
	fmt.Fprintln(stderr, msg)
	return exitError
}
