package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// DomainModel is the RBAC-with-domains model; the domain is the company id.
const DomainModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}

// NewInMemoryEnforcer builds an enforcer from DomainModel without touching
// the filesystem.
func NewInMemoryEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(DomainModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
