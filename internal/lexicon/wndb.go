package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	errs "github.com/tnguyen91/lexigraph/pkg/errors"
)

// pointerSymbols maps WNDB pointer symbols to relation types. Symbols not
// listed here (lexical domain pointers such as ";c" or "-r") fall outside
// the fixed relation set and are dropped during parsing.
var pointerSymbols = map[string]RelationType{
	"@":  RelHypernym,
	"@i": RelInstanceHypernym,
	"~":  RelHyponym,
	"~i": RelInstanceHyponym,
	"#m": RelMemberHolonym,
	"#p": RelPartHolonym,
	"#s": RelSubstanceHolonym,
	"%m": RelMemberMeronym,
	"%p": RelPartMeronym,
	"%s": RelSubstanceMeronym,
	"!":  RelAntonym,
	"&":  RelSimilar,
	"^":  RelAlso,
	"=":  RelAttribute,
	"*":  RelEntailment,
	">":  RelCause,
	"+":  RelDerivation,
}

// rawPointer is a relation record before endpoint resolution. TargetPOS may
// disagree with the target synset's ss_type for adjective satellites, which
// is resolved later against the full synset table.
type rawPointer struct {
	Type      RelationType
	TargetOff string
	TargetPOS PartOfSpeech
}

// rawSynset is a parsed WNDB data-file record.
type rawSynset struct {
	Offset   string
	POS      PartOfSpeech
	Words    []string
	Gloss    string
	Pointers []rawPointer
}

// SynsetID builds the canonical "offset-pos" identifier.
func (r rawSynset) SynsetID() string {
	return r.Offset + "-" + string(r.POS)
}

// parseDataFile reads one Princeton WNDB data file (data.noun, data.verb,
// data.adj, data.adv). Record layout per line:
//
//	offset lex_filenum ss_type w_cnt word lex_id [word lex_id...] p_cnt
//	[ptr...] [frames...] | gloss
//
// where w_cnt is two-digit hex, p_cnt is decimal, and each ptr is
// "symbol offset pos source/target". The copyright preamble lines start
// with two spaces and are skipped.
func parseDataFile(path string) ([]rawSynset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrCorpusNotFound, path)
		}
		return nil, fmt.Errorf("opening corpus file %s: %w", path, err)
	}
	defer f.Close()

	var synsets []rawSynset
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "  ") {
			continue
		}
		syn, err := parseDataLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", errs.ErrCorpusMalformed, path, lineNo, err)
		}
		synsets = append(synsets, syn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return synsets, nil
}

// parseDataLine parses a single synset record.
func parseDataLine(line string) (rawSynset, error) {
	var syn rawSynset

	body := line
	if bar := strings.Index(line, "|"); bar >= 0 {
		syn.Gloss = strings.TrimSpace(line[bar+1:])
		body = line[:bar]
	}

	fields := strings.Fields(body)
	if len(fields) < 5 {
		return syn, fmt.Errorf("record has %d fields, want at least 5", len(fields))
	}

	syn.Offset = fields[0]
	if len(syn.Offset) != 8 {
		return syn, fmt.Errorf("synset offset %q is not 8 digits", syn.Offset)
	}
	pos, ok := ParsePartOfSpeech(fields[2])
	if !ok {
		return syn, fmt.Errorf("unknown ss_type %q", fields[2])
	}
	syn.POS = pos

	wordCount, err := strconv.ParseInt(fields[3], 16, 32)
	if err != nil {
		return syn, fmt.Errorf("word count %q is not hex: %v", fields[3], err)
	}
	if wordCount < 1 {
		return syn, fmt.Errorf("synset has no words")
	}

	// Words alternate with hex lex_ids: word lex_id word lex_id ...
	idx := 4
	for i := int64(0); i < wordCount; i++ {
		if idx+1 >= len(fields) {
			return syn, fmt.Errorf("truncated word list: want %d words", wordCount)
		}
		word := strings.ReplaceAll(fields[idx], "_", " ")
		// Adjective entries may carry a syntactic marker, e.g. "galore(ip)".
		if paren := strings.Index(word, "("); paren > 0 && strings.HasSuffix(word, ")") {
			word = word[:paren]
		}
		syn.Words = append(syn.Words, word)
		idx += 2
	}

	if idx >= len(fields) {
		return syn, fmt.Errorf("missing pointer count")
	}
	ptrCount, err := strconv.Atoi(fields[idx])
	if err != nil {
		return syn, fmt.Errorf("pointer count %q is not decimal: %v", fields[idx], err)
	}
	idx++

	for i := 0; i < ptrCount; i++ {
		if idx+3 >= len(fields) {
			return syn, fmt.Errorf("truncated pointer list: want %d pointers", ptrCount)
		}
		symbol := fields[idx]
		targetOff := fields[idx+1]
		targetPOSField := fields[idx+2]
		idx += 4

		relType, known := pointerSymbols[symbol]
		if !known {
			continue
		}
		if len(targetOff) != 8 {
			return syn, fmt.Errorf("pointer target offset %q is not 8 digits", targetOff)
		}
		targetPOS, ok := ParsePartOfSpeech(targetPOSField)
		if !ok {
			return syn, fmt.Errorf("pointer target pos %q unknown", targetPOSField)
		}
		syn.Pointers = append(syn.Pointers, rawPointer{
			Type:      relType,
			TargetOff: targetOff,
			TargetPOS: targetPOS,
		})
	}

	return syn, nil
}
