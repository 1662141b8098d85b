package fixture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/rankselect/blobstore"
	"github.com/hupe1980/rankselect/index"
)

const (
	// InputExt is the extension of query files.
	InputExt = ".in"
	// AnswerExt is the extension of expected-answer files.
	AnswerExt = ".ans"
)

// ErrSyntax is returned for malformed fixture lines.
var ErrSyntax = errors.New("fixture: syntax error")

// Op is a query operation.
type Op byte

const (
	OpRank   Op = 'R'
	OpSelect Op = 'S'
)

func (o Op) String() string {
	switch o {
	case OpRank:
		return "rank"
	case OpSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Query is a single rank or select call.
type Query struct {
	Op  Op
	Arg int
}

// Case is a parsed fixture.
type Case struct {
	Name    string
	Words   []uint64
	Queries []Query
	// Answers is nil when no .ans file was loaded.
	Answers []int
}

// Parse reads the .in format: a line of words followed by query lines.
func Parse(r io.Reader) (*Case, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<28)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing vector line", ErrSyntax)
	}
	words, err := ParseWords(sc.Text())
	if err != nil {
		return nil, err
	}

	c := &Case{Words: words}
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		q, err := parseQuery(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Queries = append(c.Queries, q)
	}
	return c, sc.Err()
}

// ParseWords parses space-separated decimal words. Negative values are
// taken as two's complement.
func ParseWords(s string) ([]uint64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty vector line", ErrSyntax)
	}
	words := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err == nil {
			words[i] = uint64(v)
			continue
		}
		u, uerr := strconv.ParseUint(f, 10, 64)
		if uerr != nil {
			return nil, fmt.Errorf("%w: word %d: %q", ErrSyntax, i, f)
		}
		words[i] = u
	}
	return words, nil
}

func parseQuery(s string) (Query, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Query{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	var op Op
	switch {
	case strings.HasPrefix(fields[0], "R"):
		op = OpRank
	case strings.HasPrefix(fields[0], "S"):
		op = OpSelect
	default:
		return Query{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}
	arg, err := strconv.Atoi(fields[1])
	if err != nil {
		return Query{}, fmt.Errorf("%w: argument %q", ErrSyntax, fields[1])
	}
	return Query{Op: op, Arg: arg}, nil
}

// ParseAnswers reads one integer per line.
func ParseAnswers(r io.Reader) ([]int, error) {
	var out []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(strings.Fields(text)[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrSyntax, text)
		}
		out = append(out, v)
	}
	return out, sc.Err()
}

// Run answers every query, using -1 for failed queries.
func Run(rs index.RankSelect, queries []Query) []int {
	out := make([]int, len(queries))
	for i, q := range queries {
		if q.Op == OpRank {
			out[i] = index.RankOrSentinel(rs, q.Arg)
		} else {
			out[i] = index.SelectOrSentinel(rs, q.Arg)
		}
	}
	return out
}

// WriteAnswers writes one answer per line.
func WriteAnswers(w io.Writer, answers []int) error {
	bw := bufio.NewWriter(w)
	for _, a := range answers {
		bw.WriteString(strconv.Itoa(a))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// MismatchError reports the first query whose answer differs.
type MismatchError struct {
	Case  string
	Kind  index.Kind
	Line  int // line in the .in file
	Query Query
	Want  int
	Got   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s fails on %s%s line %d: %s %d: expected %d, got %d",
		e.Kind, e.Case, InputExt, e.Line, e.Query.Op, e.Query.Arg, e.Want, e.Got)
}

// Check runs the case against rs and compares with the expected answers.
func Check(c *Case, rs index.RankSelect) error {
	if len(c.Answers) != len(c.Queries) {
		return fmt.Errorf("fixture %s: %d queries but %d answers", c.Name, len(c.Queries), len(c.Answers))
	}
	got := Run(rs, c.Queries)
	for i := range got {
		if got[i] != c.Answers[i] {
			return &MismatchError{
				Case:  c.Name,
				Kind:  rs.Kind(),
				Line:  i + 2,
				Query: c.Queries[i],
				Want:  c.Answers[i],
				Got:   got[i],
			}
		}
	}
	return nil
}

// CheckKinds builds every kind over the case's vector and checks each.
func CheckKinds(c *Case, k int, kinds ...index.Kind) error {
	if len(kinds) == 0 {
		kinds = index.AllKinds()
	}
	var errs []error
	for _, kind := range kinds {
		rs, err := index.Build(kind, c.Words, k)
		if err != nil {
			errs = append(errs, fmt.Errorf("fixture %s: build %s: %w", c.Name, kind, err))
			continue
		}
		if err := Check(c, rs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads name.in and, if present, name.ans from store.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Case, error) {
	in, err := blobstore.ReadAll(ctx, store, name+InputExt)
	if err != nil {
		return nil, err
	}
	c, err := Parse(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", name, err)
	}
	c.Name = name

	ans, err := blobstore.ReadAll(ctx, store, name+AnswerExt)
	if errors.Is(err, blobstore.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Answers, err = ParseAnswers(bytes.NewReader(ans)); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", name, err)
	}
	return c, nil
}

// LoadSuite loads every .in file in store that has a matching .ans file,
// sorted by name.
func LoadSuite(ctx context.Context, store blobstore.BlobStore) ([]*Case, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}

	var cases []*Case
	for _, n := range names {
		base, ok := strings.CutSuffix(n, InputExt)
		if !ok || !have[base+AnswerExt] {
			continue
		}
		c, err := Load(ctx, store, base)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}
