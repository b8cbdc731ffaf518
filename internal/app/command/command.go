/*
Package command extracts issue references and the !add command from raw chat text.

It is purely lexical: permission checks and tracker calls belong to the handler
layer. The only state here is a compiled regular expression.
*/
package command

import (
	"regexp"
	"strconv"

	"github.com/google/shlex"

	"github.com/louiz/rugamia/internal/pkg/errs"
)

// AddPrefix is the literal command prefix for filing a new issue.
// The comparison is case-sensitive and requires exactly one following space.
const AddPrefix = "!add "

// MaxReferences caps how many issue references are processed per message,
// so a single chat line cannot flood the tracker.
const MaxReferences = 4

// referencePattern matches "#" followed by one or more digits.
var referencePattern = regexp.MustCompile(`#(\d+)`)

// IsAdd reports whether the message body invokes the !add command.
func IsAdd(body string) bool {
	return len(body) >= len(AddPrefix) && body[:len(AddPrefix)] == AddPrefix
}

// References scans body for "#<digits>" occurrences and returns their numeric
// values in left-to-right order, truncated to MaxReferences entries.
// Numbers too large for an int are skipped.
func References(body string) []int {
	matches := referencePattern.FindAllStringSubmatch(body, -1)

	var refs []int
	for _, match := range matches {
		if len(refs) == MaxReferences {
			break
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		refs = append(refs, number)
	}
	return refs
}

// ParseAdd tokenizes the text following the !add prefix with shell-style
// quoting rules and returns the issue title and description.
// Unbalanced quoting yields ErrBadArguments echoing the tokenizer's reason;
// any token count other than two yields ErrNeedTwoArguments.
func ParseAdd(body string) (title, description string, err *errs.CustomError) {
	args, splitErr := shlex.Split(body[len(AddPrefix):])
	if splitErr != nil {
		return "", "", errs.NewError(errs.ErrBadArguments, splitErr)
	}
	if len(args) != 2 {
		return "", "", errs.NewError(errs.ErrNeedTwoArguments)
	}
	return args[0], args[1], nil
}
