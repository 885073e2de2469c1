package remote

import "strings"

// Refinement queries. Both are decorative metadata for the negotiation UI:
// callers degrade to an empty list when a query fails rather than blocking
// the connection on it.
const (
	qosCommand     = `sacctmgr show qos format=Name --noheader --parsable2`
	accountCommand = `sacctmgr show associations where user=$USER format=Account --noheader --parsable2`
)

// QosList returns the QoS names configured on the cluster.
func QosList(r Runner, host string) ([]string, error) {
	out, err := r.Run(host, qosCommand)
	if err != nil {
		return nil, err
	}
	return dedupe(strings.Fields(out)), nil
}

// AccountList returns the accounts the remote user is associated with.
func AccountList(r Runner, host string) ([]string, error) {
	out, err := r.Run(host, accountCommand)
	if err != nil {
		return nil, err
	}
	return dedupe(strings.Fields(out)), nil
}
