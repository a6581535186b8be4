// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coref

import (
	"bytes"
	"sort"
	"text/template"

	"github.com/pdiddy/character-engine/pkg/types"
)

// systemInstruction carries the merge rules. The provider must answer with
// a JSON object holding a "merges" array of name groups.
const systemInstruction = `You are a careful literary analyst. You receive the character names found in a novel, each with its mention count. Identify names that refer to the SAME individual and should be merged.

Merge only when the names are aliases, nicknames, or titled forms of one person (for example "Vernon", "Uncle Vernon" and "Mr Dursley" when they are the same man).

Never merge:
- a family or group name with an individual ("the Dursleys" with "Dudley")
- a pet or animal with its owner
- siblings or other relatives with each other
- generic kinship terms ("Mum", "Aunt", "Uncle") with a specific person unless the text makes the identity unambiguous
- names you are unsure about

Be conservative: a missed merge is better than a wrong one.

Respond with a single JSON object and nothing else:
{"merges": [["Name A", "Name B"], ["Name C", "Name D", "Name E"]]}
Use names exactly as listed. Each group must contain at least two names. Return {"merges": []} when nothing should be merged.`

// userMessageTmpl lists the names the provider may merge.
var userMessageTmpl = template.Must(template.New("coref").Parse(`Character names with mention counts ({{len .}} total):
{{range .}}- {{.Name}} ({{.Mentions}})
{{end}}
Which of these names refer to the same individual?
`))

// nameCount is one line of the user message.
type nameCount struct {
	Name     string
	Mentions int
}

// nameCounts lists every entity sorted by mentions descending, then name.
func nameCounts(confirmed, candidates []types.Entity) []nameCount {
	out := make([]nameCount, 0, len(confirmed)+len(candidates))
	for _, list := range [][]types.Entity{confirmed, candidates} {
		for _, e := range list {
			out = append(out, nameCount{Name: e.CanonicalName, Mentions: e.Mentions})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// renderUserMessage executes the user message template.
func renderUserMessage(names []nameCount) (string, error) {
	var buf bytes.Buffer
	if err := userMessageTmpl.Execute(&buf, names); err != nil {
		return "", err
	}
	return buf.String(), nil
}
