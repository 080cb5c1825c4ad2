package common

type NodesContextKey string

const (
	ContextLogger     NodesContextKey = "nodes.logger"
	ContextConfig     NodesContextKey = "nodes.config"
	ContextNodeId     NodesContextKey = "nodes.node_id"
	ContextInvocation NodesContextKey = "nodes.invocation_id"
)
