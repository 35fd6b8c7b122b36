// Package config loads a scenario file (YAML/JSON) describing a supply
// chain's nodes, BOM edges, policy parameters, and demand sequences, and
// builds it into a *chain.SupplyChain ready to hand to a
// chain.Simulator. It follows the same
// viper+godotenv+validator layering the rest of the pack's services use
// for configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tevinokafor/chainsim/pkg/chain"
)

// NodeSpec describes one node in a scenario file.
type NodeSpec struct {
	SKU            string    `mapstructure:"sku" validate:"required"`
	InitialStock   int64     `mapstructure:"initial_stock" validate:"min=0"`
	OrderQuantity  int64     `mapstructure:"order_quantity" validate:"min=0"`
	ReorderLevel   int64     `mapstructure:"reorder_level" validate:"min=0"`
	ReviewTime     int64     `mapstructure:"review_time" validate:"min=0"`
	SafetyStock    int64     `mapstructure:"safety_stock" validate:"min=0"`
	LeadTimeDays   int       `mapstructure:"lead_time_days" validate:"min=0"`
	LeadTimeSeries []int     `mapstructure:"lead_time_series"`
	Demand         [][]int64 `mapstructure:"demand"`
}

// EdgeSpec describes one BOM edge: Number units of Source consumed to
// produce one unit of Destination.
type EdgeSpec struct {
	Source      string `mapstructure:"source" validate:"required"`
	Destination string `mapstructure:"destination" validate:"required"`
	Number      int64  `mapstructure:"number" validate:"required,min=1"`
}

// Scenario is the top-level decoded shape of a scenario file.
type Scenario struct {
	Name    string     `mapstructure:"name" validate:"required"`
	Periods int        `mapstructure:"periods" validate:"required,min=1"`
	Nodes   []NodeSpec `mapstructure:"nodes" validate:"required,min=1,dive"`
	Edges   []EdgeSpec `mapstructure:"edges" validate:"dive"`
}

// Load reads a scenario file from path (or discovers "scenario.yaml" in
// the working directory / ./scenarios / /etc/chainsim if path is empty),
// applying CHAINSIM_-prefixed environment overrides on top, and
// validates the decoded result. A local .env file is loaded first if
// present, matching the pack's other services.
func Load(path string) (*Scenario, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scenario")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./scenarios")
		v.AddConfigPath("/etc/chainsim")
	}

	v.SetEnvPrefix("CHAINSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read scenario config: %w", err)
		}
	}

	var scenario Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	if err := validate(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validate(s *Scenario) error {
	v := validator.New()
	if err := v.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			var messages []string
			for _, e := range verrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("%s", strings.Join(messages, "; "))
		}
		return err
	}
	return edgesReferenceKnownNodes(s)
}

func edgesReferenceKnownNodes(s *Scenario) error {
	known := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		known[n.SKU] = true
	}
	for _, e := range s.Edges {
		if !known[e.Source] {
			return fmt.Errorf("edge references unknown source node %q", e.Source)
		}
		if !known[e.Destination] {
			return fmt.Errorf("edge references unknown destination node %q", e.Destination)
		}
	}
	return nil
}

// Build materializes a Scenario into a *chain.SupplyChain with each
// node's RSQ policy data, lead time provider, and demand series wired
// from the scenario spec.
func Build(s *Scenario) (*chain.SupplyChain, error) {
	nodes := make([]*chain.Node, 0, len(s.Nodes))
	for _, spec := range s.Nodes {
		n := chain.NewNode(chain.SKU(spec.SKU), chain.NodeData{
			chain.KeyOrderQuantity: spec.OrderQuantity,
			chain.KeyReorderLevel:  spec.ReorderLevel,
			chain.KeyReviewTime:    spec.ReviewTime,
			chain.KeySafetyStock:   spec.SafetyStock,
		})
		n.Stock.Set(chain.SKU(spec.SKU), spec.InitialStock)

		if len(spec.LeadTimeSeries) > 0 {
			n.LeadTime = chain.SeriesLeadTime{Days: spec.LeadTimeSeries}
		} else {
			n.LeadTime = chain.FixedLeadTime{Days: spec.LeadTimeDays}
		}

		if len(spec.Demand) > 0 {
			n.Sales = &chain.SeriesSales{Events: spec.Demand}
		}

		nodes = append(nodes, n)
	}

	edges := make([]chain.Edge, 0, len(s.Edges))
	for _, e := range s.Edges {
		edges = append(edges, chain.Edge{
			Source:      chain.SKU(e.Source),
			Destination: chain.SKU(e.Destination),
			Number:      e.Number,
		})
	}

	c, err := chain.NewSupplyChain(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("build supply chain from scenario %q: %w", s.Name, err)
	}
	return c, nil
}
