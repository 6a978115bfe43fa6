package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logicle/internal/lexicon"
	"logicle/internal/template"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "dict.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDictionary() *template.Dictionary {
	dict := template.NewDictionary()
	dict.Add(&template.Entry{
		Predicate: "pays_to",
		Slots: []template.Slot{
			{Name: "payer", Type: "payer"},
			{Name: "amount", Type: "amount"},
			{Name: "payee", Type: "payee"},
		},
		Parts: []template.Part{
			{Kind: template.Arg, Slot: 0},
			{Kind: template.Lit, Word: "pays"},
			{Kind: template.Arg, Slot: 1},
			{Kind: template.Lit, Word: "to"},
			{Kind: template.Arg, Slot: 2},
		},
	})
	dict.Add(&template.Entry{
		Predicate: "believes_that",
		Meta:      true,
		Slots: []template.Slot{
			{Name: "person", Type: "person"},
			{Name: "fact", Type: "fact"},
		},
		Parts: []template.Part{
			{Kind: template.Arg, Slot: 0},
			{Kind: template.Lit, Word: "believes"},
			{Kind: template.Lit, Word: "that"},
			{Kind: template.Arg, Slot: 1},
		},
	})
	dict.Sort()
	return dict
}

func TestSaveAndLoadDictionary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dict := sampleDictionary()

	require.NoError(t, s.SaveDictionary(ctx, "doc-1", lexicon.English, dict))

	loaded, lang, err := s.LoadDictionary(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, lexicon.English, lang)
	require.Equal(t, dict.Len(), loaded.Len())

	want := dict.Entries()
	got := loaded.Entries()
	for i := range want {
		assert.Equal(t, want[i].Predicate, got[i].Predicate)
		assert.Equal(t, want[i].Meta, got[i].Meta)
		assert.Equal(t, want[i].Slots, got[i].Slots)
		assert.Equal(t, want[i].Parts, got[i].Parts)
	}
}

func TestSaveReplacesPreviousDictionary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDictionary(ctx, "doc-1", lexicon.English, sampleDictionary()))

	small := template.NewDictionary()
	small.Add(&template.Entry{
		Predicate: "sings",
		Slots:     []template.Slot{{Name: "person", Type: "person"}},
		Parts: []template.Part{
			{Kind: template.Arg, Slot: 0},
			{Kind: template.Lit, Word: "sings"},
		},
	})
	small.Sort()
	require.NoError(t, s.SaveDictionary(ctx, "doc-1", lexicon.French, small))

	loaded, lang, err := s.LoadDictionary(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, lexicon.French, lang)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, "sings", loaded.Entries()[0].Predicate)
}

func TestLoadMissingDictionary(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.LoadDictionary(context.Background(), "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")
}
