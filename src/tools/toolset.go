package tools

import (
	"github.com/Protocol-Lattice/spacex-agent/src/spacex"
	"github.com/Protocol-Lattice/spacex-agent/src/wiki"
)

// Default returns the full toolset bound to the given clients, in the order
// they are presented to the model.
func Default(client *spacex.Client, wikiClient *wiki.Client) []Tool {
	return []Tool{
		&NextLaunchTool{Client: client},
		&LatestLaunchTool{Client: client},
		&CompanyInfoTool{Client: client},
		&RocketDetailsTool{Client: client},
		&LaunchpadDetailsTool{Client: client},
		&QueryLaunchesTool{Client: client},
		&WikipediaTool{Client: wikiClient},
	}
}
