package libdiff

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffString returns the text patch turning from into to, empty when they
// are equal.
func DiffString(from, to string) string {
	if from == to {
		return ""
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, multiLine(from) && multiLine(to))
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(from, diffs))
}

// PatchString applies a patch made by DiffString to doc.
func PatchString(doc, patch string) (string, error) {
	if patch == "" {
		return doc, nil
	}
	dmp := diffpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	res, applied := dmp.PatchApply(patches, doc)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("%w: hunk %d of text patch", ErrConflict, i+1)
		}
	}
	return res, nil
}

// ReverseString returns the patch undoing patch.
func ReverseString(patch string) string {
	lines := strings.SplitAfter(patch, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@ -"):
			lines[i] = reverseHeader(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = "+" + line[1:]
		case strings.HasPrefix(line, "+"):
			lines[i] = "-" + line[1:]
		}
	}
	return strings.Join(lines, "")
}

// reverseHeader swaps the ranges of a hunk header "@@ -a,b +c,d @@".
func reverseHeader(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return line
	}
	from, to := fields[1][1:], fields[2][1:]
	return "@@ -" + to + " +" + from + " @@\n"
}

// Lines renders a line diff of two texts, prefixing removed lines with
// "- ", added lines with "+ " and common lines with "  ".
func Lines(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
