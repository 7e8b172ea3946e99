package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/mdast"
	"github.com/yaklabco/mdnames/pkg/runner"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifToolName  = "mdnames"
	sarifToolURI   = "https://github.com/yaklabco/mdnames"
	sarifSrcRoot   = "%SRCROOT%"

	// Result columns are converted from bytes to code points.
	sarifColumnKind = "unicodeCodePoints"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
	ColumnKind  string            `json:"columnKind"`
	Results     []SARIFResult     `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule.
type SARIFRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	ShortDescription *SARIFMessage    `json:"shortDescription,omitempty"`
	HelpURI          string           `json:"helpUri,omitempty"`
	DefaultConfig    *SARIFRuleConfig `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any   `json:"properties,omitempty"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFInvocation records whether the run completed.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification reports a file that could not be processed.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFMessage contains plain text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion describes a text region, either by line and column or by
// byte offset.
type SARIFRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFFix represents a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange describes changes to a file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement describes a text replacement.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion   `json:"deletedRegion"`
	InsertedContent *SARIFMessage `json:"insertedContent,omitempty"`
}

// SARIFReporter formats results as SARIF 2.1.0.
type SARIFReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           sarifToolName,
			Version:        r.opts.ToolVersion,
			InformationURI: sarifToolURI,
			Rules:          make([]SARIFRule, 0),
		}},
		ColumnKind: sarifColumnKind,
		Results:    make([]SARIFResult, 0),
	}

	ruleIndex := make(map[string]int)
	for _, rule := range r.opts.registry().Rules() {
		ruleIndex[rule.ID()] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule(rule))
	}

	invocation := SARIFInvocation{ExecutionSuccessful: true}

	if result != nil {
		for _, file := range result.Files {
			artifact := r.artifact(file.Path)

			if file.Error != nil {
				invocation.ExecutionSuccessful = false
				invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, SARIFNotification{
					Level:     "error",
					Message:   SARIFMessage{Text: file.Error.Error()},
					Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{ArtifactLocation: artifact}}},
				})
				continue
			}

			var snapshot *mdast.FileSnapshot
			if file.Result != nil && file.Result.FileResult != nil {
				snapshot = file.Result.Snapshot
			}

			for _, diag := range diagnosticsOf(file) {
				idx, ok := ruleIndex[diag.RuleID]
				if !ok {
					idx = len(run.Tool.Driver.Rules)
					ruleIndex[diag.RuleID] = idx
					run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{ID: diag.RuleID, Name: diag.RuleName})
				}
				run.Results = append(run.Results, sarifResult(diag, idx, artifact, snapshot))
			}
		}
	}

	run.Invocations = []SARIFInvocation{invocation}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func (r *SARIFReporter) artifact(path string) SARIFArtifactLocation {
	display := r.opts.displayPath(path)
	if filepath.IsAbs(filepath.FromSlash(display)) {
		return SARIFArtifactLocation{URI: "file://" + display}
	}
	return SARIFArtifactLocation{URI: display, URIBaseID: sarifSrcRoot}
}

func sarifRule(rule lint.Rule) SARIFRule {
	return SARIFRule{
		ID:               rule.ID(),
		Name:             rule.Name(),
		ShortDescription: &SARIFMessage{Text: rule.Description()},
		HelpURI:          rule.InfoURL(),
		DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(rule.DefaultSeverity())},
		Properties:       map[string]any{"tags": rule.Tags()},
	}
}

func sarifResult(diag lint.Diagnostic, ruleIndex int, artifact SARIFArtifactLocation, snapshot *mdast.FileSnapshot) SARIFResult {
	region := &SARIFRegion{
		StartLine:   diag.StartLine,
		StartColumn: codePointColumn(snapshot, diag.StartLine, diag.StartColumn),
		EndLine:     diag.EndLine,
		// SARIF end columns are exclusive.
		EndColumn: codePointColumn(snapshot, diag.EndLine, diag.EndColumn+1),
	}

	res := SARIFResult{
		RuleID:    diag.RuleID,
		RuleIndex: ruleIndex,
		Level:     severityToSARIFLevel(diag.Severity),
		Message:   SARIFMessage{Text: diag.Message},
		Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
			ArtifactLocation: artifact,
			Region:           region,
		}}},
	}

	if diag.HasFix() {
		change := SARIFArtifactChange{ArtifactLocation: artifact}
		for _, edit := range diag.FixEdits {
			offset, length := edit.StartOffset, edit.Len()
			change.Replacements = append(change.Replacements, SARIFReplacement{
				DeletedRegion:   SARIFRegion{ByteOffset: &offset, ByteLength: &length},
				InsertedContent: &SARIFMessage{Text: edit.NewText},
			})
		}
		description := diag.Suggestion
		if description == "" {
			description = diag.Message
		}
		res.Fixes = []SARIFFix{{
			Description:     SARIFMessage{Text: description},
			ArtifactChanges: []SARIFArtifactChange{change},
		}}
	}

	return res
}

// codePointColumn converts a 1-based byte column on a 1-based line into a
// 1-based code point column. Without the source the byte column is kept.
func codePointColumn(snapshot *mdast.FileSnapshot, line, byteCol int) int {
	if snapshot == nil || byteCol < 1 {
		return byteCol
	}
	content := snapshot.LineContent(line)
	if content == nil {
		return byteCol
	}
	prefix := content[:min(byteCol-1, len(content))]
	return utf8.RuneCount(prefix) + 1 + max(byteCol-1-len(content), 0)
}

// severityToSARIFLevel converts a severity to a SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
