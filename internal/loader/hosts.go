package loader

import (
	"sort"

	"handlescope/internal/probe"
)

func sortedHosts(set probe.SignatureSet) []string {
	hosts := make([]string, 0, len(set))
	for h := range set {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
