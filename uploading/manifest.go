package uploading

import (
	"encoding/json"
	"sort"

	"github.com/t2bot/url-media-nodes/common"
)

type ManifestEntry struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder,omitempty"`
}

// Manifest groups already-written output files by media kind label ("images", "videos", ...).
type Manifest map[string][]ManifestEntry

// ParseManifest reads the JSON object handed to the upload node. Values that aren't lists, and list
// items that aren't objects, are ignored.
func ParseManifest(b []byte) (Manifest, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, common.InvalidInput("invalid file_list JSON: %s", err.Error())
	}

	manifest := make(Manifest)
	for label, value := range raw {
		items := make([]json.RawMessage, 0)
		if err := json.Unmarshal(value, &items); err != nil {
			continue
		}
		entries := make([]ManifestEntry, 0, len(items))
		for _, item := range items {
			fields := make(map[string]interface{})
			if err := json.Unmarshal(item, &fields); err != nil {
				continue
			}
			entry := ManifestEntry{}
			entry.Filename, _ = fields["filename"].(string)
			entry.Subfolder, _ = fields["subfolder"].(string)
			entries = append(entries, entry)
		}
		manifest[label] = entries
	}
	return manifest, nil
}

func (m Manifest) Labels() []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (m Manifest) Add(label string, entries ...ManifestEntry) {
	m[label] = append(m[label], entries...)
}

func (m Manifest) Len() int {
	n := 0
	for _, entries := range m {
		n += len(entries)
	}
	return n
}
