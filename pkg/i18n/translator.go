package i18n

import (
	"embed"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

var localeFiles = []string{"locales/active.en.toml", "locales/active.id.toml"}

// Message identifiers shared by the dialog view and roster exports.
const (
	MsgDialogTitle      = "DialogTitle"
	MsgDialogLoading    = "DialogLoading"
	MsgDialogEmpty      = "DialogEmpty"
	MsgDialogPresent    = "DialogPresent"
	MsgDialogTotal      = "DialogTotal"
	MsgUnknownStudent   = "UnknownStudent"
	MsgColumnName       = "ColumnName"
	MsgColumnStudentID  = "ColumnStudentID"
	MsgColumnDepartment = "ColumnDepartment"
	MsgColumnEmail      = "ColumnEmail"
	MsgColumnStatus     = "ColumnStatus"
	MsgColumnMarkedAt   = "ColumnMarkedAt"
)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *goi18n.Bundle
	defaultLanguage language.Tag
	logger          *zap.Logger
}

// NewTranslator loads the embedded message files using defaultLocale
// (e.g. "en") as the fallback language.
func NewTranslator(defaultLocale string, logger *zap.Logger) (*Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return &Translator{bundle: bundle, defaultLanguage: tag, logger: logger}, nil
}

// T renders the message identified by key for locale. locale may be a
// single tag or a raw Accept-Language header. Unknown keys render as the key.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := goi18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("localize failed", zap.String("key", key), zap.Strings("locales", languages), zap.Error(err))
		return key
	}
	return msg
}
