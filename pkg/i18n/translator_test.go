package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := NewTranslator("en", nil)
	require.NoError(t, err)
	return tr
}

func TestTranslatorDefaults(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Attendance List", tr.T("", MsgDialogTitle, nil))
	assert.Equal(t, "Loading...", tr.T("fr", MsgDialogLoading, nil))
	assert.Equal(t, "No students have marked attendance yet", tr.T("en-US", MsgDialogEmpty, nil))
}

func TestTranslatorTemplateData(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Total: 3 students present", tr.T("en", MsgDialogTotal, map[string]any{"Count": 3}))
	assert.Equal(t, "Total: 0 mahasiswa hadir", tr.T("id", MsgDialogTotal, map[string]any{"Count": 0}))
}

func TestTranslatorAcceptLanguage(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Hadir", tr.T("id-ID,id;q=0.9,en;q=0.8", MsgDialogPresent, nil))
}

func TestTranslatorUnknownKey(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "NoSuchMessage", tr.T("en", "NoSuchMessage", nil))
	assert.Equal(t, "", tr.T("en", "", nil))
}
