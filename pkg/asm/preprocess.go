// Package asm implements the SASVM preprocessor and two-pass assembler:
// lex-level normalization (case folding, comment/whitespace stripping,
// label resolution, numeral canonicalization) followed by emission of a
// 256-byte memory image.
package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ambertide/sasvm/pkg/word"
)

// Compiled once at package init, matching the teacher's "global regex table
// → compile once" pattern (elsie/internal/asm compiles its grammar once;
// the reference Python preprocessor compiles its patterns at import time).
var (
	commentPattern = regexp.MustCompile(`;.*`)
	orgArgPattern  = regexp.MustCompile(`(?:^|\s)org\s+(\S+)`)
)

// Preprocessor turns raw assembly source into the canonical, one-statement-
// per-line form the Assembler consumes. It is stateless between calls
// except for the logger it was built with.
type Preprocessor struct {
	log logrus.FieldLogger
}

// NewPreprocessor builds a Preprocessor. A nil logger defaults to logrus's
// standard logger.
func NewPreprocessor(log logrus.FieldLogger) *Preprocessor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Preprocessor{log: log}
}

// Process runs the full preprocessing pipeline: lower-case, strip comments
// and whitespace, resolve labels, then canonicalize numeric literals.
func (p *Preprocessor) Process(source string) string {
	cleaned := strings.ToLower(source)
	cleaned = p.stripCommentsAndSpaces(cleaned)
	cleaned = p.resolveLabels(cleaned)
	cleaned = p.convertNumerals(cleaned)
	return cleaned
}

// stripCommentsAndSpaces removes ";"-to-end-of-line comments, trims each
// line, collapses internal whitespace runs to single spaces (so a line
// reads "mnemonic op1,op2[,op3]"), and discards blank lines.
func (p *Preprocessor) stripCommentsAndSpaces(source string) string {
	var out strings.Builder
	for _, line := range strings.Split(source, "\n") {
		line = commentPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = collapseWhitespace(line)
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

// collapseWhitespace canonicalizes a line's whitespace so it reads
// "MNEMONIC OP1,OP2[,OP3]" — exactly one space after the mnemonic, none
// inside the operand list — or, for a label line, "LABEL: MNEMONIC
// OP1,OP2" with the same rule applied to the instruction half.
func collapseWhitespace(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		label := line[:idx]
		rest := strings.TrimSpace(line[idx+1:])
		if rest == "" {
			return label + ":"
		}
		return label + ": " + collapseInstructionWhitespace(rest)
	}
	return collapseInstructionWhitespace(line)
}

// collapseInstructionWhitespace collapses the first whitespace run it sees
// into a single separator space (between mnemonic and operand list) and
// discards every subsequent run entirely (no spaces survive inside the
// operand list itself, matching spec.md §4.C.2).
func collapseInstructionWhitespace(s string) string {
	var out strings.Builder
	seenSeparator := false
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' {
			j := i
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				j++
			}
			if !seenSeparator {
				out.WriteByte(' ')
				seenSeparator = true
			}
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

// isLabel reports whether line defines a label: "name:" alone, or
// "name: expression" with the label's instruction inlined on the same
// line. Colons appear nowhere else in SASVM source, so the presence of a
// colon is sufficient; a line containing any quote character is never
// treated as a label.
func isLabel(line string) bool {
	return strings.Contains(line, ":") && !strings.ContainsAny(line, "\"'")
}

func isOrg(line string) bool {
	return strings.HasPrefix(line, "org ")
}

// parseExpression returns the memory pointer after the given directive or
// instruction is accounted for: org jumps the pointer, db advances it by
// the byte count it emits, anything else advances it by 2 (one
// instruction).
func parseExpression(memPtr int, expression string) int {
	switch {
	case strings.Contains(expression, "db "):
		return memPtr + len(parseDBOperandsLiteral(expression))
	case strings.Contains(expression, "org "):
		n, _ := parseOrgTarget(expression)
		return n
	default:
		return memPtr + 2
	}
}

// parseDBOperandsLiteral counts the bytes a "db a,b,c" directive will emit
// while its operands are still in raw literal form (e.g. "41h", `"hi"`),
// for use while computing memory-pointer advancement during label
// resolution. A quoted character-string operand contributes one byte per
// character (spec.md §4.D/§9); a numeric operand contributes one byte.
func parseDBOperandsLiteral(expression string) []int {
	_, rest, hasRest := strings.Cut(expression, "db ")
	if !hasRest {
		return nil
	}
	var values []int
	for _, tok := range splitDBTokens(rest) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if str, ok := stringTokenLiteral(tok); ok {
			for _, r := range str {
				values = append(values, int(r))
			}
			continue
		}
		hexStr := ConvertNumeral(tok)
		n, err := strconv.ParseInt(hexStr, 16, 32)
		if err != nil {
			continue
		}
		values = append(values, int(n))
	}
	return values
}

// splitDBTokens splits a "db" directive's comma-separated operand list,
// treating commas inside a quoted string literal as literal characters
// rather than separators.
func splitDBTokens(rest string) []string {
	var tokens []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			tokens = append(tokens, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	tokens = append(tokens, cur.String())
	return tokens
}

// stringTokenLiteral reports whether tok is a quoted character-string
// operand and, if so, returns its unquoted contents.
func stringTokenLiteral(tok string) (string, bool) {
	if len(tok) < 2 {
		return "", false
	}
	first, last := tok[0], tok[len(tok)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return tok[1 : len(tok)-1], true
	}
	return "", false
}

// parseOrgTarget resolves an org directive's target address from a line
// whose numeral has not yet passed through convertNumerals (still in its
// literal source form, e.g. "20h", "0x20", "32"). Used while computing
// memory-pointer advancement during label resolution.
func parseOrgTarget(expression string) (int, error) {
	m := orgArgPattern.FindStringSubmatch(expression)
	if m == nil {
		return 0, errors.Errorf("malformed org directive: %q", expression)
	}
	hexStr := ConvertNumeral(m[1])
	n, err := strconv.ParseInt(hexStr, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "org target %q", m[1])
	}
	return int(n), nil
}

// parseOrgTargetHex resolves an org directive's target address from a
// fully preprocessed line, whose numeral is already a canonical 2-digit
// hex token — it must not be run back through ConvertNumeral, which would
// misread a bare digit string as decimal.
func parseOrgTargetHex(expression string) (int, error) {
	m := orgArgPattern.FindStringSubmatch(expression)
	if m == nil {
		return 0, errors.Errorf("malformed org directive: %q", expression)
	}
	n, err := strconv.ParseInt(m[1], 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "org target %q", m[1])
	}
	return int(n), nil
}

// resolveLabels performs the single forward label-resolution pass
// described in spec.md §4.C.3: build a label->address table, then
// substitute label references for their resolved "<addr>h" form.
func (p *Preprocessor) resolveLabels(source string) string {
	lines := nonEmptyLines(source)
	bodyLines, labels := decideLocations(lines)
	return strings.Join(replaceLabels(bodyLines, labels), "\n")
}

func nonEmptyLines(source string) []string {
	var lines []string
	for _, l := range strings.Split(source, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func decideLocations(lines []string) ([]string, map[string]int) {
	labels := make(map[string]int)
	var body []string
	memPtr := 0
	for _, line := range lines {
		if isLabel(line) {
			name, expr, hasExpr := strings.Cut(line, ":")
			expr = strings.TrimSpace(expr)
			labels[name] = memPtr
			if hasExpr && expr != "" {
				memPtr = parseExpression(memPtr, expr)
				body = append(body, expr)
			}
			continue
		}
		memPtr = parseExpression(memPtr, line)
		body = append(body, line)
	}
	return body, labels
}

func replaceLabels(lines []string, labels map[string]int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		mnemonic, args, hasArgs := strings.Cut(line, " ")
		if hasArgs {
			args = attemptReplace(args, labels)
			out[i] = mnemonic + " " + args
		} else {
			out[i] = line
		}
	}
	return out
}

func attemptReplace(args string, labels map[string]int) string {
	for name, addr := range labels {
		if strings.Contains(args, name) {
			return strings.ReplaceAll(args, name, fmt.Sprintf("%02Xh", addr))
		}
	}
	return args
}

// convertNumerals canonicalizes every operand token on every instruction
// line (lines containing a space) into its two-character hex form.
func (p *Preprocessor) convertNumerals(source string) string {
	var out strings.Builder
	for _, line := range strings.Split(source, "\n") {
		if line == "" {
			continue
		}
		if !strings.Contains(line, " ") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		mnemonic, operandsStr, _ := strings.Cut(line, " ")
		operands := strings.Split(operandsStr, ",")
		for i, op := range operands {
			converted := ConvertNumeral(op)
			if converted != "" {
				operands[i] = converted
			}
		}
		out.WriteString(mnemonic)
		out.WriteByte(' ')
		out.WriteString(strings.Join(operands, ","))
		out.WriteByte('\n')
	}
	return out.String()
}

// ConvertNumeral converts an assembly numeral into its two-character
// hexadecimal form. Recognized bases, tested in this order: trailing "b"
// (base 2), leading "0x"/"$" or trailing "h" (base 16), leading "-" (base
// 10, sign preserved as Cell wrap), otherwise all-digits (base 10).
// Malformed tokens are returned unchanged — the preprocessor does not
// report detailed diagnostics (spec.md §4.C).
func ConvertNumeral(token string) string {
	isPointer := strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]")
	s := strings.TrimPrefix(strings.TrimSuffix(token, "]"), "[")

	base, stripped, ok := detectBase(s)
	if !ok {
		return token
	}
	n, err := strconv.ParseInt(stripped, base, 64)
	if err != nil {
		return token
	}
	hexStr := word.NewCell(int(n)).Hex()
	if isPointer {
		return "[" + hexStr + "]"
	}
	return hexStr
}

func detectBase(s string) (base int, stripped string, ok bool) {
	switch {
	case strings.HasSuffix(s, "b"):
		return 2, strings.TrimSuffix(s, "b"), true
	case strings.HasPrefix(s, "0x"):
		return 16, strings.TrimPrefix(s, "0x"), true
	case strings.HasPrefix(s, "$"):
		return 16, strings.TrimPrefix(s, "$"), true
	case strings.HasSuffix(s, "h"):
		return 16, strings.TrimSuffix(s, "h"), true
	case strings.HasPrefix(s, "-"):
		return 10, s, true
	case isAllDigits(s):
		return 10, s, true
	default:
		return 0, "", false
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
