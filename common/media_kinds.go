package common

type MediaKind string

const KindImage MediaKind = "image"
const KindAudio MediaKind = "audio"
const KindVideo MediaKind = "video"

var AllKinds = []MediaKind{KindImage, KindAudio, KindVideo}

func (k MediaKind) IsValid() bool {
	for _, v := range AllKinds {
		if v == k {
			return true
		}
	}
	return false
}
