package device

import (
	"fmt"
	"slices"

	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/protocol"
)

// Strip is a plug with individually switchable outlets (HS300, KP303)
type Strip struct {
	*Plug
}

var (
	_ Device      = (*Strip)(nil)
	_ MultiOutlet = (*Strip)(nil)
	_ Metered     = (*Strip)(nil)
)

// NewStrip creates the strip capability set for host
func NewStrip(host string, q Querier) *Strip {
	return &Strip{Plug: NewPlug(host, q)}
}

// Outlets returns the child outlets in device order
func (s *Strip) Outlets() ([]discovery.Outlet, error) {
	info, err := s.Sysinfo()
	if err != nil {
		return nil, err
	}
	return discovery.ParseOutlets(info), nil
}

// IsOn reports whether any outlet is on
func (s *Strip) IsOn() (bool, error) {
	outlets, err := s.Outlets()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(outlets, func(o discovery.Outlet) bool { return o.On }), nil
}

// TurnOnOutlet switches one outlet on
func (s *Strip) TurnOnOutlet(index int) error {
	return s.setOutlet(index, true)
}

// TurnOffOutlet switches one outlet off
func (s *Strip) TurnOffOutlet(index int) error {
	return s.setOutlet(index, false)
}

func (s *Strip) setOutlet(index int, on bool) error {
	outlets, err := s.Outlets()
	if err != nil {
		return err
	}
	if err := ValidateOutletIndex(index, len(outlets)); err != nil {
		return err
	}
	return s.setRelay(on, outlets[index].ID)
}

// Realtime returns the emeter reading of every outlet keyed by outlet ID
func (s *Strip) Realtime() (map[string]any, error) {
	outlets, err := s.Outlets()
	if err != nil {
		return nil, err
	}

	readings := make(map[string]any, len(outlets))
	for _, o := range outlets {
		res, err := s.do(&protocol.Request{
			Module:   s.emeterModule,
			Method:   "get_realtime",
			ChildIDs: []string{o.ID},
		})
		if err != nil {
			return nil, err
		}
		readings[o.ID] = res
	}
	return readings, nil
}

// Details adds one line per outlet to the plug details
func (s *Strip) Details() ([]Detail, error) {
	details, err := s.Plug.Details()
	if err != nil {
		return nil, err
	}
	outlets, err := s.Outlets()
	if err != nil {
		return nil, err
	}
	for i, o := range outlets {
		details = append(details, Detail{
			Name:  fmt.Sprintf("Outlet %d (%s)", i+1, o.Alias),
			Value: onOff(o.On),
		})
	}
	return details, nil
}
