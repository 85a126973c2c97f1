package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	errs "github.com/tnguyen91/lexigraph/pkg/errors"
)

// omwRow is one lemma attachment from an Open Multilingual WordNet tab file.
type omwRow struct {
	SynsetID string
	Lang     string
	Text     string
}

// parseOMWFile reads an OMW tab file. Row layout:
//
//	synset_id<TAB>lang:type<TAB>value
//
// e.g. "02958343-n\tfra:lemma\tvoiture". Only "lemma" rows are kept;
// definition and example rows are skipped. Lines starting with '#' are
// comments.
func parseOMWFile(path string) ([]omwRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrCorpusNotFound, path)
		}
		return nil, fmt.Errorf("opening corpus file %s: %w", path, err)
	}
	defer f.Close()

	var rows []omwRow
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			return nil, fmt.Errorf("%w: %s:%d: row has %d columns, want 3",
				errs.ErrCorpusMalformed, path, lineNo, len(cols))
		}
		langType := strings.SplitN(cols[1], ":", 2)
		if len(langType) != 2 || langType[0] == "" {
			return nil, fmt.Errorf("%w: %s:%d: bad lang:type column %q",
				errs.ErrCorpusMalformed, path, lineNo, cols[1])
		}
		if langType[1] != "lemma" {
			continue
		}
		text := strings.TrimSpace(cols[2])
		if text == "" {
			return nil, fmt.Errorf("%w: %s:%d: empty lemma",
				errs.ErrCorpusMalformed, path, lineNo)
		}
		rows = append(rows, omwRow{
			SynsetID: cols[0],
			Lang:     langType[0],
			Text:     text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return rows, nil
}
