package main

import (
	"github.com/t2bot/url-media-nodes/nodes"
	"github.com/t2bot/url-media-nodes/normalizing/m"
)

// summarize replaces tensors with their shapes so results can be printed.
func summarize(outputs nodes.Outputs) []interface{} {
	summary := make([]interface{}, len(outputs))
	for i, o := range outputs {
		switch v := o.(type) {
		case *m.Image:
			summary[i] = map[string]interface{}{"type": "IMAGE", "shape": v.Tensor.Shape}
		case *m.Tensor:
			summary[i] = map[string]interface{}{"type": "MASK", "shape": v.Shape}
		case *m.Audio:
			s := map[string]interface{}{
				"type":        "AUDIO",
				"shape":       v.Waveform.Shape,
				"sample_rate": v.SampleRate,
				"duration":    v.Duration.Seconds(),
			}
			if v.Tags != nil {
				s["tags"] = v.Tags
			}
			summary[i] = s
		case *nodes.AudioTuple:
			summary[i] = map[string]interface{}{"type": "AUDIO", "shape": v.Waveform.Shape, "sample_rate": v.SampleRate}
		case *m.Video:
			summary[i] = map[string]interface{}{"type": "VIDEO", "path": v.FilePath, "size": v.SizeBytes, "persisted": v.Persisted}
		default:
			summary[i] = v
		}
	}
	return summary
}
