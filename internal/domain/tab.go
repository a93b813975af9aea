package domain

import (
	"fmt"
	"strings"
)

type Tab string

const (
	TabSplitter  Tab = "splitter"
	TabGenerator Tab = "generator"
	TabDirector  Tab = "director"
	TabImage     Tab = "image"
)

// Tabs lists the views in navigation order.
var Tabs = []Tab{TabSplitter, TabGenerator, TabDirector, TabImage}

func ParseTab(raw string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if !tab.Valid() {
		return "", fmt.Errorf("%w %q (want splitter|generator|director|image)", ErrInvalidTab, raw)
	}

	return tab, nil
}

func (t Tab) Valid() bool {
	switch t {
	case TabSplitter, TabGenerator, TabDirector, TabImage:
		return true
	default:
		return false
	}
}

func (t Tab) Label() string {
	switch t {
	case TabSplitter:
		return "File Splitter"
	case TabGenerator:
		return "Story/Character Analyzer"
	case TabDirector:
		return "Prompt Director"
	case TabImage:
		return "Image Prompt"
	default:
		return string(t)
	}
}

func (t Tab) Step() string {
	switch t {
	case TabSplitter:
		return "01"
	case TabGenerator:
		return "02"
	case TabDirector:
		return "03"
	case TabImage:
		return "EXTRA"
	default:
		return ""
	}
}

func (t Tab) Description() string {
	switch t {
	case TabSplitter:
		return "Safely split large text files into chunks."
	case TabGenerator:
		return "Analyze characters and narrative in depth."
	case TabDirector:
		return "Refine the prompt in a conversation with the model."
	case TabImage:
		return "Generate character appearance tags."
	default:
		return ""
	}
}
