package resume

import (
	"github.com/jdkato/prose/v2"
)

// ProseRecognizer finds the first PERSON entity with prose's named-entity
// model.
type ProseRecognizer struct{}

func (ProseRecognizer) RecognizeName(text string) (string, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return "", err
	}
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			return ent.Text, nil
		}
	}
	return "", nil
}
