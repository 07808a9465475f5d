package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nroussel/airdispatch/core/model"
)

type AgentDef struct {
	ID       int     `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Capacity int     `yaml:"capacity"`
	Busy     bool    `yaml:"busy"`
}

func (a AgentDef) ToModel() model.Agent {
	return model.Agent{
		ID:          a.ID,
		Location:    model.Location{X: a.X, Y: a.Y},
		MaxCapacity: a.Capacity,
	}
}

type OrderDef struct {
	ID         int     `yaml:"id"`
	MerchantID int     `yaml:"merchant_id"`
	MerchantX  float64 `yaml:"merchant_x"`
	MerchantY  float64 `yaml:"merchant_y"`
	DropoffX   float64 `yaml:"dropoff_x"`
	DropoffY   float64 `yaml:"dropoff_y"`
	Deadline   int     `yaml:"deadline"`
}

func (o OrderDef) ToModel() model.Order {
	return model.Order{
		ID:         o.ID,
		MerchantID: o.MerchantID,
		Merchant:   model.Location{X: o.MerchantX, Y: o.MerchantY},
		Dropoff:    model.Location{X: o.DropoffX, Y: o.DropoffY},
		Deadline:   o.Deadline,
	}
}

type Expected struct {
	Applied    int `yaml:"applied"`
	Unassigned int `yaml:"unassigned"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Policy      string     `yaml:"policy"`
	Seed        int64      `yaml:"seed"`
	Agents      []AgentDef `yaml:"agents"`
	Orders      []OrderDef `yaml:"orders"`
	Expected    Expected   `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
