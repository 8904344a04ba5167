package output

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/temirov/digest/internal/types"
)

type rawRenderer struct {
	stdout         io.Writer
	multipleRoots  bool
	includeSummary bool
}

func (renderer *rawRenderer) RenderDigest(result types.DigestOutput) error {
	if renderer.multipleRoots {
		if _, err := fmt.Fprintf(renderer.stdout, digestHeaderFormat, result.Root); err != nil {
			return err
		}
	}
	if renderer.includeSummary {
		if _, err := fmt.Fprintln(renderer.stdout, FormatSummaryLine(result.Summary)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(renderer.stdout); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(renderer.stdout, result.Document)
	return err
}

func (renderer *rawRenderer) RenderTree(result types.TreeOutput) error {
	if renderer.multipleRoots {
		if _, err := fmt.Fprintf(renderer.stdout, treeHeaderFormat, result.Root); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(renderer.stdout, result.Tree); err != nil {
		return err
	}
	if renderer.includeSummary {
		if _, err := fmt.Fprintln(renderer.stdout); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(renderer.stdout, FormatSummaryLine(result.Summary)); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *rawRenderer) RenderClassification(result types.ClassificationOutput) error {
	if renderer.multipleRoots {
		if _, err := fmt.Fprintf(renderer.stdout, classificationHeaderForm, result.Root); err != nil {
			return err
		}
	}
	labelWidth := minimumLabelWidth
	for _, classified := range result.Paths {
		labelWidth = max(labelWidth, utf8.RuneCountInString(ClassifiedLabel(classified)))
	}
	for _, classified := range result.Paths {
		if _, err := fmt.Fprintf(renderer.stdout, classifiedPathFormat, labelWidth, ClassifiedLabel(classified), classified.Path); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *rawRenderer) Flush() error {
	return nil
}
