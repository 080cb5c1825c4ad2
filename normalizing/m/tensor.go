package m

import "fmt"

// Tensor is a dense row-major float32 array.
type Tensor struct {
	Shape []int
	Data  []float32
}

func NewTensor(shape ...int) *Tensor {
	size := 1
	for _, d := range shape {
		size *= d
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return &Tensor{Shape: s, Data: make([]float32, size)}
}

func (t *Tensor) Dims() int {
	return len(t.Shape)
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.Shape) {
		panic(fmt.Sprintf("tensor: got %d indices for %d dimensions", len(idx), len(t.Shape)))
	}
	o := 0
	for i, v := range idx {
		o = o*t.Shape[i] + v
	}
	return o
}

func (t *Tensor) At(idx ...int) float32 {
	return t.Data[t.offset(idx)]
}

func (t *Tensor) Set(v float32, idx ...int) {
	t.Data[t.offset(idx)] = v
}

func (t *Tensor) Fill(v float32) *Tensor {
	for i := range t.Data {
		t.Data[i] = v
	}
	return t
}

func (t *Tensor) String() string {
	return fmt.Sprintf("tensor%v", t.Shape)
}
