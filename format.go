package treemask

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(diffs Diffs, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, diffs, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a text report to w, one line per diff. if colorTTY is
// true it will add
// red "-" for values missing from the tree
// green "+" for values the mask requires to be absent
// blue "~" for mismatches
// yellow "?" for rejected predicates
// magenta "!" for duplicate set keys
func FormatPretty(w io.Writer, diffs Diffs, colorTTY bool) error {
	var colorMap map[Kind]string

	if colorTTY {
		colorMap = map[Kind]string{
			Kind("close"): "\x1b[0m", // end color tag

			KindMissing:       "\x1b[31m", // red
			KindUnexpected:    "\x1b[32m", // green
			KindMismatch:      "\x1b[34m", // blue
			KindPredicate:     "\x1b[33m", // yellow
			KindDuplicateKeys: "\x1b[35m", // magenta
		}
	}

	for _, d := range diffs {
		treeStr, maskStr := formatValue(d.Tree), formatValue(d.Mask)
		path := d.Path
		if path == "" {
			path = "(root)"
		}
		kind := d.Kind()
		if _, err := fmt.Fprintf(w, "%s%s %s: %s, want %s%s\n", colorMap[kind], kind, path, treeStr, maskStr, colorMap[Kind("close")]); err != nil {
			return err
		}
	}

	return nil
}

// formatValue writes v as JSON, falling back to fmt for values JSON can't
// encode
func formatValue(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(st *Stats) string {
	return formatStats(st, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(st *Stats) string {
	return formatStats(st, true)
}

func formatStats(st *Stats, color bool) string {
	var (
		neutralColor, missingColor, unexpectedColor, mismatchColor, closeColor string
	)

	if st == nil {
		return ""
	}

	if color {
		neutralColor = "\x1b[37m"
		missingColor = "\x1b[31m"
		unexpectedColor = "\x1b[32m"
		mismatchColor = "\x1b[34m"
		closeColor = "\x1b[0m"
	}

	buf := &bytes.Buffer{}

	buf.WriteString(fmt.Sprintf("%s%d %s compared, %.0f%% matched.%s",
		neutralColor, st.Positions, plural(st.Positions, "position", "positions"), st.PctMatched()*100, closeColor))
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", mismatchColor, st.Mismatches, plural(st.Mismatches, "mismatch", "mismatches"), closeColor))
	buf.WriteString(fmt.Sprintf(" %s%d missing.%s", missingColor, st.Missing, closeColor))
	buf.WriteString(fmt.Sprintf(" %s%d unexpected.%s", unexpectedColor, st.Unexpected, closeColor))

	if st.Rejected > 0 {
		buf.WriteString(fmt.Sprintf(" %s%d %s.%s", mismatchColor, st.Rejected, plural(st.Rejected, "rejected predicate", "rejected predicates"), closeColor))
	}
	if st.DuplicateKeys > 0 {
		buf.WriteString(fmt.Sprintf(" %s%d %s.%s", mismatchColor, st.DuplicateKeys, plural(st.DuplicateKeys, "duplicate key report", "duplicate key reports"), closeColor))
	}

	buf.WriteRune('\n')

	return buf.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
