package registry

import (
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/nodes/quercle"
	"github.com/quercle/operion-quercle/pkg/protocol"
)

// RegisterDefaultNodes registers the built-in node factories and credential types.
func (r *Registry) RegisterDefaultNodes(
	executor *quercle.Executor,
	lookup protocol.CredentialLookup,
	env credentials.EnvLookup,
	credentialTypes ...protocol.CredentialType,
) {
	// Register Quercle node
	r.RegisterNode(quercle.NewQuercleNodeFactory(executor, lookup, env))

	if len(credentialTypes) == 0 {
		credentialTypes = []protocol.CredentialType{credentials.NewQuercleAPI("", nil)}
	}

	for _, credentialType := range credentialTypes {
		r.RegisterCredential(credentialType)
	}
}
