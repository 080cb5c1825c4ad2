package nodes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/metrics"
)

// Registry maps node ids to their implementation. It is filled once at start and read afterwards.
type Registry struct {
	lock  sync.RWMutex
	nodes map[string]Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]Node)}
}

func (r *Registry) Register(n Node) error {
	id := n.Schema().Id
	if id == "" {
		return fmt.Errorf("node has no id: %T", n)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.nodes[id]; ok {
		return fmt.Errorf("node already registered: %s", id)
	}
	r.nodes[id] = n
	return nil
}

func (r *Registry) Get(id string) (Node, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	n, ok := r.nodes[id]
	return n, ok
}

// List returns every schema ordered by id.
func (r *Registry) List() []Schema {
	r.lock.RLock()
	defer r.lock.RUnlock()
	schemas := make([]Schema, 0, len(r.nodes))
	for _, n := range r.nodes {
		schemas = append(schemas, n.Schema())
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Id < schemas[j].Id
	})
	return schemas
}

func (r *Registry) prepare(id string, raw map[string]interface{}) (Node, Inputs, error) {
	n, ok := r.Get(id)
	if !ok {
		return nil, nil, common.InvalidInput("unknown node: %s", id)
	}
	inputs, err := prepareInputs(n.Schema(), raw)
	if err != nil {
		return nil, nil, err
	}
	if v, ok := n.(InputValidator); ok {
		if err = v.ValidateInputs(inputs); err != nil {
			return nil, nil, err
		}
	}
	return n, inputs, nil
}

// Execute applies defaults, coerces and validates raw inputs, then runs the node.
func (r *Registry) Execute(ctx rcontext.RequestContext, id string, raw map[string]interface{}) (Outputs, error) {
	ctx = ctx.LogWithFields(logrus.Fields{"node": id})

	n, inputs, err := r.prepare(id, raw)
	if err != nil {
		metrics.NodeExecutions.With(prometheus.Labels{"node": id, "result": "invalid"}).Inc()
		return nil, err
	}

	ctx.Log.Debug("Executing node")
	outputs, err := n.Execute(ctx, inputs)
	if err != nil {
		ctx.Log.Warn("Node failed: ", err)
		metrics.NodeExecutions.With(prometheus.Labels{"node": id, "result": "failed"}).Inc()
		return nil, err
	}
	metrics.NodeExecutions.With(prometheus.Labels{"node": id, "result": "ok"}).Inc()
	return outputs, nil
}

// Fingerprint returns the node's cache fingerprint for raw, or false when the node doesn't provide one.
func (r *Registry) Fingerprint(id string, raw map[string]interface{}) (string, bool, error) {
	n, inputs, err := r.prepare(id, raw)
	if err != nil {
		return "", false, err
	}
	f, ok := n.(Fingerprinter)
	if !ok {
		return "", false, nil
	}
	return f.Fingerprint(inputs), true, nil
}
