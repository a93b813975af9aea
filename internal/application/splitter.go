package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxChars = 30000

// separators are tried in order when a piece is too long: paragraphs first,
// then lines. Anything still too long is cut on rune boundaries.
var separators = []string{"\n\n", "\n"}

// SplitText cuts text into chunks of at most maxChars runes. Chunks made only
// of whitespace are dropped.
func SplitText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := splitPieces(strings.TrimSpace(text), maxChars, separators)
	result := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		result = append(result, chunk)
	}

	return result
}

func splitPieces(text string, maxChars int, seps []string) []string {
	if utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}
	if len(seps) == 0 {
		return chunkRunes(text, maxChars)
	}

	sep := seps[0]
	sepLen := utf8.RuneCountInString(sep)

	var (
		chunks     []string
		current    strings.Builder
		currentLen int
	)
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		currentLen = 0
	}

	for _, part := range strings.Split(text, sep) {
		n := utf8.RuneCountInString(part)
		if n > maxChars {
			flush()
			chunks = append(chunks, splitPieces(part, maxChars, seps[1:])...)
			continue
		}
		if n == 0 && currentLen == 0 {
			continue
		}
		if currentLen > 0 && currentLen+sepLen+n > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(sep)
			currentLen += sepLen
		}
		current.WriteString(part)
		currentLen += n
	}
	flush()

	return chunks
}

func chunkRunes(text string, maxChars int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/maxChars+1)
	for start := 0; start < len(runes); start += maxChars {
		end := min(start+maxChars, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// SplitFiles reads every input, splits it with SplitText and writes the parts
// as <base>_part_NN.txt. Inputs are read concurrently; the returned files keep
// input order.
func SplitFiles(ctx context.Context, inputs []string, opts SplitOptions) ([]domain.SourceFile, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoFiles
	}

	contents := make([]string, len(inputs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var files []domain.SourceFile
	for i, input := range inputs {
		outDir := opts.OutDir
		if outDir == "" {
			outDir = filepath.Dir(input)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}

		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		for n, chunk := range SplitText(contents[i], opts.MaxChars) {
			name := fmt.Sprintf("%s_part_%02d.txt", base, n+1)
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, []byte(chunk), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			files = append(files, domain.SourceFile{Name: name, Path: path, Size: int64(len(chunk))})
		}
	}

	return files, nil
}

// StatFiles describes existing files so they can be handed to the generator
// without splitting.
func StatFiles(paths []string) ([]domain.SourceFile, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoFiles
	}

	files := make([]domain.SourceFile, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		files = append(files, domain.SourceFile{Name: filepath.Base(path), Path: abs, Size: info.Size()})
	}

	return files, nil
}
