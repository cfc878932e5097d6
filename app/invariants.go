package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	swaptypes "github.com/paw-chain/tokenswap/x/swap/types"
)

type invariantRoute struct {
	moduleName string
	route      string
	invar      sdk.Invariant
}

// invariantRegistry collects the invariants checked at the end of each block
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

// RegisterRoute adds an invariant, routes run in registration order
func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{moduleName: moduleName, route: route, invar: invar})
}

// Routes lists the registered routes as module/route
func (r *invariantRegistry) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for _, ir := range r.routes {
		out = append(out, ir.moduleName+"/"+ir.route)
	}
	return out
}

// assert runs every route and fails on the first broken invariant
func (r *invariantRegistry) assert(ctx sdk.Context) error {
	for _, ir := range r.routes {
		if msg, broken := ir.invar(ctx); broken {
			return swaptypes.ErrInvariantViolation.Wrapf("%s/%s: %s", ir.moduleName, ir.route, msg)
		}
	}
	return nil
}
