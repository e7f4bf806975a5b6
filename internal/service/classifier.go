package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// classificationRule pairs a report-type tag with the keyword sets that
// identify it. A rule matches when ANY of its keyword groups matches; a group
// matches when ALL of its phrases appear in the text.
type classificationRule struct {
	tag   domain.ReportType
	anyOf [][]string
}

// ReportClassifier maps raw report text to a report-type tag via an ordered
// chain of keyword rules. The chain is evaluated most-specific first so that
// a generic token ("cholesterol") never shadows a specific phrase ("lipid
// profile") checked earlier.
type ReportClassifier struct {
	logger *logrus.Logger
	rules  []classificationRule
}

// NewReportClassifier creates a classifier with the default rule chain.
func NewReportClassifier(logger *logrus.Logger) *ReportClassifier {
	return &ReportClassifier{
		logger: logger,
		rules:  defaultClassificationRules(),
	}
}

// defaultClassificationRules builds the ordered rule chain. Order is a
// first-class artifact: compare and multi-panel phrases come before the
// single-panel rules whose tokens they contain.
func defaultClassificationRules() []classificationRule {
	return []classificationRule{
		{tag: domain.CompareBloodTest, anyOf: [][]string{
			{"compare"}, {"comparison"}, {"previous result"},
		}},
		{tag: domain.CBC, anyOf: [][]string{
			{"complete blood count"}, {"cbc"},
			{"hemoglobin", "hematocrit"},
			{"wbc", "rbc"},
		}},
		{tag: domain.OGTT, anyOf: [][]string{
			{"oral glucose tolerance"}, {"ogtt"}, {"glucose tolerance test"},
		}},
		{tag: domain.HbA1c, anyOf: [][]string{
			{"hba1c"}, {"glycated hemoglobin"}, {"glycosylated hemoglobin"}, {"a1c"},
		}},
		{tag: domain.Glucose, anyOf: [][]string{
			{"glucose"}, {"blood sugar"}, {"fbs"}, {"rbs"},
		}},
		{tag: domain.Liver, anyOf: [][]string{
			{"liver function"}, {"lft"},
			{"alt", "ast"},
			{"bilirubin"}, {"alkaline phosphatase"},
		}},
		{tag: domain.Kidney, anyOf: [][]string{
			{"kidney function"}, {"renal function"}, {"kft"}, {"rft"},
			{"creatinine", "urea"},
			{"egfr"},
		}},
		{tag: domain.Electrolytes, anyOf: [][]string{
			{"electrolyte"},
			{"sodium", "potassium"},
		}},
		{tag: domain.CMP, anyOf: [][]string{
			{"comprehensive metabolic panel"}, {"cmp"},
		}},
		{tag: domain.BMP, anyOf: [][]string{
			{"basic metabolic panel"}, {"bmp"},
		}},
		{tag: domain.Lipid, anyOf: [][]string{
			{"lipid profile"}, {"lipid panel"},
			{"cholesterol"}, {"triglyceride"},
			{"hdl", "ldl"},
		}},
		{tag: domain.VitaminD, anyOf: [][]string{
			{"vitamin d"}, {"25-hydroxy"}, {"cholecalciferol"},
		}},
		{tag: domain.Thyroid, anyOf: [][]string{
			{"thyroid"}, {"tsh"},
			{"t3", "t4"},
		}},
		{tag: domain.Iron, anyOf: [][]string{
			{"iron panel"}, {"ferritin"}, {"transferrin"}, {"tibc"}, {"iron study"},
		}},
		{tag: domain.Coagulation, anyOf: [][]string{
			{"coagulation"}, {"prothrombin"}, {"inr"}, {"aptt"}, {"d-dimer"},
		}},
		{tag: domain.Hormone, anyOf: [][]string{
			{"hormone"}, {"testosterone"}, {"estradiol"}, {"prolactin"}, {"cortisol"},
		}},
		{tag: domain.Inflammation, anyOf: [][]string{
			{"inflammation"}, {"crp"}, {"c-reactive"}, {"esr"}, {"sedimentation rate"},
		}},
		{tag: domain.Urinalysis, anyOf: [][]string{
			{"urinalysis"}, {"urine analysis"}, {"urine test"},
		}},
		{tag: domain.ImagingReport, anyOf: [][]string{
			{"x-ray"}, {"ultrasound"}, {"mri"}, {"ct scan"}, {"radiograph"},
		}},
		{tag: domain.OtherBloodTest, anyOf: [][]string{
			{"blood test"}, {"blood work"}, {"serum"},
		}},
		{tag: domain.GeneralMedical, anyOf: [][]string{
			{"medical report"}, {"clinical report"}, {"diagnosis"},
		}},
	}
}

// Classify returns the first rule tag whose keyword groups match the text,
// or unknown when nothing matches. Matching is case-insensitive and pure.
func (c *ReportClassifier) Classify(text string) domain.ReportType {
	lowered := strings.ToLower(text)

	for _, rule := range c.rules {
		if matchesRule(lowered, rule) {
			c.logger.WithFields(logrus.Fields{
				"report_type": rule.tag.String(),
				"text_length": len(text),
			}).Debug("Report type classified")
			return rule.tag
		}
	}

	c.logger.WithField("text_length", len(text)).Debug("No classification rule matched")
	return domain.UnknownReportType
}

func matchesRule(lowered string, rule classificationRule) bool {
	for _, group := range rule.anyOf {
		if matchesAll(lowered, group) {
			return true
		}
	}
	return false
}

func matchesAll(lowered string, phrases []string) bool {
	for _, phrase := range phrases {
		if !strings.Contains(lowered, phrase) {
			return false
		}
	}
	return true
}
