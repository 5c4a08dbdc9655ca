package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// NetProduct is one entry in the curated network hardware catalog.
type NetProduct struct {
	Name        string
	Model       string
	Type        string
	PriceRange  string
	Segment     string // enterprise | small_business
	KeyFeatures []string
	Specs       map[string]string
	UseCase     string
}

// NetProductTool recommends network hardware (routers, switches, firewalls,
// wireless) from a curated catalog, matched against the user's query.
type NetProductTool struct {
	MaxResults   int
	IncludeSpecs bool
	catalog      map[string][]NetProduct
}

func NewNetProductTool(maxResults int, includeSpecs bool) *NetProductTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &NetProductTool{
		MaxResults:   maxResults,
		IncludeSpecs: includeSpecs,
		catalog:      defaultCatalog(),
	}
}

func (n *NetProductTool) Name() string {
	return "netproduct"
}

func (n *NetProductTool) Description() string {
	return "Recommend network products (routers, switches, firewalls, wireless APs) from a curated catalog with specifications, pricing, and buying advice."
}

func (n *NetProductTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "What the user is looking for (e.g. 'enterprise router with SD-WAN', 'firewall with VPN for a small office')",
			},
		},
		"required": []string{"query"},
	}
}

func (n *NetProductTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	categories, segment := classifyQuery(args.Query)

	var b strings.Builder
	b.WriteString("# Network Product Recommendations\n\n")
	b.WriteString(fmt.Sprintf("Query: %s\n\n", args.Query))

	count := 0
	for _, cat := range categories {
		products := n.catalog[cat]
		for _, p := range products {
			if segment != "" && p.Segment != segment {
				continue
			}
			if count >= n.MaxResults {
				break
			}
			n.writeProduct(&b, cat, p)
			count++
		}
	}

	if count == 0 {
		b.WriteString("No curated products matched the query. Try naming a product category: router, switch, firewall, or wireless.\n")
		return b.String(), nil
	}

	b.WriteString("## Buying Advice\n")
	b.WriteString("- Match throughput and port counts to 2-3 years of expected growth.\n")
	b.WriteString("- Prefer vendors with active security update programs.\n")
	b.WriteString("- For mixed deployments, staying within one vendor's management plane reduces operational cost.\n")

	return b.String(), nil
}

func (n *NetProductTool) writeProduct(b *strings.Builder, category string, p NetProduct) {
	b.WriteString(fmt.Sprintf("## %s (%s)\n", p.Name, p.Model))
	b.WriteString(fmt.Sprintf("- Category: %s / %s\n", category, p.Type))
	b.WriteString(fmt.Sprintf("- Price range: %s\n", p.PriceRange))
	b.WriteString(fmt.Sprintf("- Use case: %s\n", p.UseCase))
	b.WriteString("- Key features:\n")
	for _, f := range p.KeyFeatures {
		b.WriteString(fmt.Sprintf("  - %s\n", f))
	}
	if n.IncludeSpecs && len(p.Specs) > 0 {
		b.WriteString("- Specifications:\n")
		for _, k := range sortedKeys(p.Specs) {
			b.WriteString(fmt.Sprintf("  - %s: %s\n", k, p.Specs[k]))
		}
	}
	b.WriteString("\n")
}

// classifyQuery derives the product categories and business segment from
// free-form query text. Any keyword hit adds the category; no hit at all
// falls back to every category.
func classifyQuery(query string) ([]string, string) {
	q := strings.ToLower(query)

	var categories []string
	if containsAny(q, "router", "routing", "wan", "internet") {
		categories = append(categories, "router")
	}
	if containsAny(q, "switch", "switching", "lan", "port") {
		categories = append(categories, "switch")
	}
	if containsAny(q, "firewall", "security", "vpn", "protection") {
		categories = append(categories, "firewall")
	}
	if containsAny(q, "wifi", "wireless", "access point", "ap") {
		categories = append(categories, "wireless")
	}
	if len(categories) == 0 {
		categories = []string{"router", "switch", "firewall", "wireless"}
	}

	segment := ""
	if containsAny(q, "enterprise", "large", "corporation", "campus") {
		segment = "enterprise"
	} else if containsAny(q, "small", "soho", "home office", "startup") {
		segment = "small_business"
	}

	return categories, segment
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// small maps, insertion sort is fine
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func defaultCatalog() map[string][]NetProduct {
	return map[string][]NetProduct{
		"router": {
			{
				Name:       "Cisco ISR 4000 Series",
				Model:      "ISR4431",
				Type:       "Enterprise Router",
				PriceRange: "$2000-5000",
				Segment:    "enterprise",
				KeyFeatures: []string{
					"High-performance routing for branch offices",
					"Integrated security features",
					"SD-WAN support",
					"Modular design",
				},
				Specs: map[string]string{
					"throughput": "2.5 Gbps",
					"wan_ports":  "3",
					"lan_ports":  "3",
					"power":      "250W",
				},
				UseCase: "Medium to large enterprise branch offices",
			},
			{
				Name:       "Juniper MX Series",
				Model:      "MX240",
				Type:       "Service Provider Router",
				PriceRange: "$15000-30000",
				Segment:    "enterprise",
				KeyFeatures: []string{
					"Carrier-grade reliability",
					"High-density 10/40/100GE interfaces",
					"Advanced MPLS support",
				},
				Specs: map[string]string{
					"throughput":      "480 Gbps",
					"interface_slots": "8",
					"redundancy":      "Dual RE support",
				},
				UseCase: "Service provider edge and core networks",
			},
			{
				Name:       "ASUS AX6000",
				Model:      "RT-AX88U",
				Type:       "WiFi 6 Router",
				PriceRange: "$200-400",
				Segment:    "small_business",
				KeyFeatures: []string{
					"WiFi 6 (802.11ax) support",
					"8 Gigabit LAN ports",
					"AiMesh support for mesh networking",
				},
				Specs: map[string]string{
					"wifi_speed": "6000 Mbps",
					"lan_ports":  "8 x Gigabit",
					"antennas":   "4 external",
				},
				UseCase: "Small to medium businesses, home offices",
			},
		},
		"switch": {
			{
				Name:       "Cisco Catalyst 9300",
				Model:      "C9300-48P",
				Type:       "Enterprise Access Switch",
				PriceRange: "$4000-8000",
				Segment:    "enterprise",
				KeyFeatures: []string{
					"48 PoE+ ports",
					"StackWise-480 stacking",
					"Full L3 feature set",
				},
				Specs: map[string]string{
					"ports":      "48 x 1GbE PoE+",
					"uplinks":    "modular",
					"poe_budget": "437W",
				},
				UseCase: "Enterprise campus access layer",
			},
			{
				Name:       "Netgear GS308",
				Model:      "GS308-300PAS",
				Type:       "Unmanaged Switch",
				PriceRange: "$20-40",
				Segment:    "small_business",
				KeyFeatures: []string{
					"8 Gigabit ports, plug-and-play",
					"Fanless, silent operation",
				},
				Specs: map[string]string{
					"ports": "8 x 1GbE",
					"power": "4.9W",
				},
				UseCase: "Desk-side expansion for small offices",
			},
		},
		"firewall": {
			{
				Name:       "Palo Alto PA-400 Series",
				Model:      "PA-440",
				Type:       "Next-Generation Firewall",
				PriceRange: "$1500-3000",
				Segment:    "enterprise",
				KeyFeatures: []string{
					"App-ID traffic classification",
					"Integrated threat prevention",
					"IPSec and SSL VPN",
				},
				Specs: map[string]string{
					"throughput":     "3 Gbps",
					"threat_prevent": "1 Gbps",
					"sessions":       "200k",
				},
				UseCase: "Branch office perimeter security",
			},
			{
				Name:       "Ubiquiti Dream Machine",
				Model:      "UDM-Pro",
				Type:       "All-in-One Security Gateway",
				PriceRange: "$400-600",
				Segment:    "small_business",
				KeyFeatures: []string{
					"Integrated firewall and IDS/IPS",
					"Network video recorder",
					"UniFi controller built in",
				},
				Specs: map[string]string{
					"throughput": "3.5 Gbps",
					"ids_ips":    "3.5 Gbps",
					"wan_ports":  "2",
				},
				UseCase: "Small business all-in-one gateway",
			},
		},
		"wireless": {
			{
				Name:       "Cisco Meraki MR46",
				Model:      "MR46-HW",
				Type:       "Cloud-Managed Access Point",
				PriceRange: "$1000-1500",
				Segment:    "enterprise",
				KeyFeatures: []string{
					"WiFi 6 with 4x4 MU-MIMO",
					"Cloud management and analytics",
					"Integrated RF optimization",
				},
				Specs: map[string]string{
					"wifi":   "802.11ax",
					"radios": "tri-radio",
					"power":  "PoE+",
				},
				UseCase: "Enterprise campus wireless",
			},
			{
				Name:       "TP-Link Omada EAP610",
				Model:      "EAP610",
				Type:       "WiFi 6 Access Point",
				PriceRange: "$80-130",
				Segment:    "small_business",
				KeyFeatures: []string{
					"WiFi 6 dual-band",
					"Omada SDN controller support",
					"Ceiling or wall mount",
				},
				Specs: map[string]string{
					"wifi":  "AX1800",
					"power": "PoE 802.3at",
				},
				UseCase: "Affordable small office wireless",
			},
		},
	}
}
