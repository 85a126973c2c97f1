package query

import "github.com/tnguyen91/lexigraph/internal/lexicon"

// Definition is the dictionary-style response for a word: one entry per
// sense, each prefixed with the long part-of-speech name.
type Definition struct {
	Word        string   `json:"word"`
	Definitions []string `json:"definitions"`
}

// Define returns the glosses of every English synset containing the word,
// in corpus load order, each rendered as "<pos>: <gloss>". A word with no
// synsets yields an empty definitions list.
func (e *Engine) Define(word string) *Definition {
	synsets := e.idx.Lookup(word, lexicon.LangEnglish)
	def := &Definition{
		Word:        word,
		Definitions: make([]string, 0, len(synsets)),
	}
	for _, syn := range synsets {
		def.Definitions = append(def.Definitions, syn.POS.LongName()+": "+syn.Gloss)
	}
	return def
}
