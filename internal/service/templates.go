package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// Placeholders recognized inside prompt templates.
const (
	placeholderReportText = "{report_text}"
	placeholderTone       = "{tone}"
	placeholderTestType   = "{test_type}"
	placeholderDigest     = "{results_digest}"
)

// TemplateCatalog is the immutable prompt-template configuration built at
// startup: a primary report_type -> language map, a secondary tone-keyed map
// for narrative styles, and the longitudinal-profile templates.
type TemplateCatalog struct {
	byType    map[domain.ReportType]map[domain.Language]string
	byTone    map[domain.Tone]map[domain.Language]string
	byProfile map[domain.Language]string
}

// TemplateSelector resolves the prompt template for an analysis request.
type TemplateSelector struct {
	logger  *logrus.Logger
	catalog *TemplateCatalog
}

// NewTemplateSelector creates a selector over the given catalog. Pass
// DefaultTemplateCatalog() for the built-in prompt set.
func NewTemplateSelector(logger *logrus.Logger, catalog *TemplateCatalog) *TemplateSelector {
	return &TemplateSelector{logger: logger, catalog: catalog}
}

// DefaultTemplateCatalog builds the built-in prompt set. Report types without
// a dedicated template resolve through the general fallback.
func DefaultTemplateCatalog() *TemplateCatalog {
	return &TemplateCatalog{
		byType: map[domain.ReportType]map[domain.Language]string{
			domain.CBC:              {domain.English: cbcPromptEN, domain.Arabic: cbcPromptAR},
			domain.Glucose:          {domain.English: glucosePromptEN, domain.Arabic: glucosePromptAR},
			domain.OGTT:             {domain.English: ogttPromptEN, domain.Arabic: ogttPromptAR},
			domain.Liver:            {domain.English: liverPromptEN, domain.Arabic: liverPromptAR},
			domain.Kidney:           {domain.English: kidneyPromptEN, domain.Arabic: kidneyPromptAR},
			domain.Lipid:            {domain.English: lipidPromptEN, domain.Arabic: lipidPromptAR},
			domain.HbA1c:            {domain.English: hba1cPromptEN, domain.Arabic: hba1cPromptAR},
			domain.VitaminD:         {domain.English: vitaminDPromptEN, domain.Arabic: vitaminDPromptAR},
			domain.Thyroid:          {domain.English: thyroidPromptEN, domain.Arabic: thyroidPromptAR},
			domain.Iron:             {domain.English: ironPromptEN, domain.Arabic: ironPromptAR},
			domain.Inflammation:     {domain.English: inflammationPromptEN, domain.Arabic: inflammationPromptAR},
			domain.CompareBloodTest: {domain.English: comparePromptEN, domain.Arabic: comparePromptAR},
			domain.GeneralMedical:   {domain.English: generalPromptEN, domain.Arabic: generalPromptAR},
		},
		byTone: map[domain.Tone]map[domain.Language]string{
			domain.ToneDoctor:       {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
			domain.ToneExecutive:    {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
			domain.ToneEducational:  {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
			domain.TonePreventative: {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
			domain.ToneTechnical:    {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
			domain.ToneEmpathetic:   {domain.English: tonePromptEN, domain.Arabic: tonePromptAR},
		},
		byProfile: map[domain.Language]string{
			domain.English: profilePromptEN,
			domain.Arabic:  profilePromptAR,
		},
	}
}

// Select resolves the template for (report_type, language, tone). The type
// map always wins: type-specific templates carry a {tone} slot, so the
// narrative style is applied inside them. Resolution falls to the general
// template, then to the tone-keyed set, before surfacing a miss as
// ErrTemplateNotFound.
func (s *TemplateSelector) Select(reportType domain.ReportType, language domain.Language, tone domain.Tone) (string, error) {
	if byLang, ok := s.catalog.byType[reportType]; ok {
		if tpl, ok := byLang[language]; ok {
			return tpl, nil
		}
	}

	s.logger.WithFields(logrus.Fields{
		"report_type": reportType.String(),
		"language":    language.String(),
		"tone":        tone.String(),
	}).Debug("No dedicated template, using general fallback")

	if byLang, ok := s.catalog.byType[domain.GeneralMedical]; ok {
		if tpl, ok := byLang[language]; ok {
			return tpl, nil
		}
	}

	if tone != domain.ToneGeneral {
		if byLang, ok := s.catalog.byTone[tone]; ok {
			if tpl, ok := byLang[language]; ok {
				return tpl, nil
			}
		}
	}

	return "", fmt.Errorf("template for type=%s language=%s tone=%s: %w",
		reportType, language, tone, domain.ErrTemplateNotFound)
}

// ProfileTemplate returns the digital-profile template for the language,
// falling back to English when the language has no dedicated one.
func (s *TemplateSelector) ProfileTemplate(language domain.Language) (string, error) {
	if tpl, ok := s.catalog.byProfile[language]; ok {
		return tpl, nil
	}
	if tpl, ok := s.catalog.byProfile[domain.English]; ok {
		return tpl, nil
	}
	return "", fmt.Errorf("profile template for language=%s: %w", language, domain.ErrTemplateNotFound)
}

// FormatPrompt instantiates a template with the document text and, where the
// template carries the placeholders, the tone and glucose test type.
func FormatPrompt(template, reportText string, tone domain.Tone, testType string) string {
	out := strings.ReplaceAll(template, placeholderReportText, reportText)
	out = strings.ReplaceAll(out, placeholderTone, tone.String())
	out = strings.ReplaceAll(out, placeholderTestType, testType)
	return out
}

// FormatProfilePrompt instantiates a digital-profile template with the
// concatenated result digests.
func FormatProfilePrompt(template, digest string) string {
	return strings.ReplaceAll(template, placeholderDigest, digest)
}

// GlucoseTestType inspects the report text to distinguish fasting from
// random glucose sampling for templates that carry a {test_type} slot.
func GlucoseTestType(text string) string {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "fasting") || strings.Contains(lowered, "fbs") {
		return "fasting"
	}
	return "random"
}
