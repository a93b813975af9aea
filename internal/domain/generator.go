package domain

import (
	"fmt"
	"slices"
	"strings"
)

type AnalysisStatus string

const (
	AnalysisIdle    AnalysisStatus = "IDLE"
	AnalysisPending AnalysisStatus = "PENDING"
	AnalysisRunning AnalysisStatus = "RUNNING"
	AnalysisDone    AnalysisStatus = "DONE"
	AnalysisError   AnalysisStatus = "ERROR"
)

func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisIdle, AnalysisPending, AnalysisRunning, AnalysisDone, AnalysisError:
		return true
	default:
		return false
	}
}

type FileStatus string

const (
	FilePending    FileStatus = "PENDING"
	FileProcessing FileStatus = "PROCESSING"
	FileCompleted  FileStatus = "COMPLETED"
	FileError      FileStatus = "ERROR"
)

// NoFileIndex marks that no file is currently being processed.
const NoFileIndex = -1

type SourceFile struct {
	Name string
	Path string
	Size int64
}

type ProcessingFile struct {
	File   SourceFile
	Status FileStatus
}

type CharacterProfile struct {
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Personality string `json:"personality,omitempty"`
	Speech      string `json:"speech,omitempty"`
}

// AnalysisResult is the master document produced by the analyzer. Raw keeps
// the model output verbatim so downstream views can forward it unchanged.
type AnalysisResult struct {
	Summary    string
	Characters []CharacterProfile
	Raw        string
}

func (r AnalysisResult) Character(name string) (CharacterProfile, bool) {
	for _, character := range r.Characters {
		if strings.EqualFold(strings.TrimSpace(character.Name), strings.TrimSpace(name)) {
			return character, true
		}
	}

	return CharacterProfile{}, false
}

type GeneratorState struct {
	Status           AnalysisStatus
	Files            []ProcessingFile
	Result           *AnalysisResult
	Error            string
	CurrentFileIndex int
}

func NewGeneratorState() GeneratorState {
	return GeneratorState{
		Status:           AnalysisIdle,
		Files:            []ProcessingFile{},
		CurrentFileIndex: NoFileIndex,
	}
}

// GeneratorPatch is a partial update of a GeneratorState. Nil fields are left
// untouched; ClearResult drops the result even when Result is nil.
type GeneratorPatch struct {
	Status           *AnalysisStatus
	Files            []ProcessingFile
	Result           *AnalysisResult
	ClearResult      bool
	Error            *string
	CurrentFileIndex *int
}

func (g GeneratorState) Apply(patch GeneratorPatch) GeneratorState {
	next := g.clone()
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Files != nil {
		next.Files = slices.Clone(patch.Files)
	}
	if patch.ClearResult {
		next.Result = nil
	}
	if patch.Result != nil {
		result := *patch.Result
		next.Result = &result
	}
	if patch.Error != nil {
		next.Error = *patch.Error
	}
	if patch.CurrentFileIndex != nil {
		next.CurrentFileIndex = *patch.CurrentFileIndex
	}

	return next
}

// WithFiles replaces the file list and resets result, error and index
// regardless of the previous status.
func (g GeneratorState) WithFiles(files []SourceFile) GeneratorState {
	processing := make([]ProcessingFile, 0, len(files))
	for _, file := range files {
		processing = append(processing, ProcessingFile{File: file, Status: FilePending})
	}

	return GeneratorState{
		Status:           AnalysisIdle,
		Files:            processing,
		CurrentFileIndex: NoFileIndex,
	}
}

func (g GeneratorState) Start() (GeneratorState, error) {
	if g.Status == AnalysisRunning {
		return g, fmt.Errorf("%w: already %s", ErrInvalidTransition, g.Status)
	}
	if len(g.Files) == 0 {
		return g, ErrNoFiles
	}

	next := g.clone()
	next.Status = AnalysisRunning
	next.Result = nil
	next.Error = ""
	next.CurrentFileIndex = NoFileIndex
	for i := range next.Files {
		next.Files[i].Status = FilePending
	}

	return next, nil
}

func (g GeneratorState) BeginFile(index int) (GeneratorState, error) {
	if err := g.requireRunning(index); err != nil {
		return g, err
	}

	next := g.clone()
	next.CurrentFileIndex = index
	next.Files[index].Status = FileProcessing

	return next, nil
}

func (g GeneratorState) CompleteFile(index int) (GeneratorState, error) {
	if err := g.requireRunning(index); err != nil {
		return g, err
	}

	next := g.clone()
	next.Files[index].Status = FileCompleted

	return next, nil
}

func (g GeneratorState) Finish(result AnalysisResult) (GeneratorState, error) {
	if g.Status != AnalysisRunning {
		return g, fmt.Errorf("%w: finish from %s", ErrInvalidTransition, g.Status)
	}

	next := g.clone()
	next.Status = AnalysisDone
	next.Result = &result
	next.Error = ""
	next.CurrentFileIndex = NoFileIndex

	return next, nil
}

func (g GeneratorState) Fail(message string) (GeneratorState, error) {
	if g.Status != AnalysisRunning {
		return g, fmt.Errorf("%w: fail from %s", ErrInvalidTransition, g.Status)
	}

	next := g.clone()
	next.Status = AnalysisError
	next.Error = message
	if next.CurrentFileIndex >= 0 && next.CurrentFileIndex < len(next.Files) {
		next.Files[next.CurrentFileIndex].Status = FileError
	}

	return next, nil
}

// Progress returns the number of completed files and the total.
func (g GeneratorState) Progress() (int, int) {
	done := 0
	for _, file := range g.Files {
		if file.Status == FileCompleted {
			done++
		}
	}

	return done, len(g.Files)
}

func (g GeneratorState) requireRunning(index int) error {
	if g.Status != AnalysisRunning {
		return fmt.Errorf("%w: file update while %s", ErrInvalidTransition, g.Status)
	}
	if index < 0 || index >= len(g.Files) {
		return fmt.Errorf("file index %d out of range (files: %d)", index, len(g.Files))
	}

	return nil
}

func (g GeneratorState) clone() GeneratorState {
	next := g
	next.Files = slices.Clone(g.Files)
	if g.Result != nil {
		result := *g.Result
		result.Characters = slices.Clone(g.Result.Characters)
		next.Result = &result
	}

	return next
}
