package design

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnknownHandle is returned when a handle does not address an entity.
var ErrUnknownHandle = errors.New("design: unknown handle")

// Project owns every entity of a design. It is mutated only through its
// methods; handles stay valid for the project's lifetime.
type Project struct {
	Name     string
	Settings Settings

	airfoils   []*Airfoil
	components []*Component
	wings      []*Wing
	segments   []*Segment

	airfoilNames map[string]AirfoilID
}

// NewProject creates an empty project with default settings.
func NewProject(name string) *Project {
	return &Project{
		Name:         name,
		airfoilNames: make(map[string]AirfoilID),
	}
}

// AddAirfoil registers a library airfoil. Names must be unique.
func (p *Project) AddAirfoil(a Airfoil) (AirfoilID, error) {
	if _, exists := p.airfoilNames[a.Name]; exists {
		return 0, fmt.Errorf("design: airfoil %q already defined", a.Name)
	}
	id := AirfoilID(len(p.airfoils))
	p.airfoils = append(p.airfoils, &a)
	p.airfoilNames[a.Name] = id
	return id, nil
}

// AddComponent adds a component with no wings.
func (p *Project) AddComponent(name string, origin v3.Vec) ComponentID {
	id := ComponentID(len(p.components))
	p.components = append(p.components, &Component{Name: name, Origin: origin})
	return id
}

// AddWing appends a wing to component c.
func (p *Project) AddWing(c ComponentID, name string, origin v3.Vec) (WingID, error) {
	comp, err := p.Component(c)
	if err != nil {
		return 0, err
	}
	id := WingID(len(p.wings))
	p.wings = append(p.wings, &Wing{Name: name, Origin: origin, Component: c})
	comp.Wings = append(comp.Wings, id)
	return id, nil
}

// AddSegment appends s to the end of wing w.
func (p *Project) AddSegment(w WingID, s Segment) (SegmentID, error) {
	wing, err := p.Wing(w)
	if err != nil {
		return 0, err
	}
	if _, err := p.Airfoil(s.Airfoil); err != nil {
		return 0, err
	}
	s.Wing = w
	id := SegmentID(len(p.segments))
	p.segments = append(p.segments, &s)
	wing.Segments = append(wing.Segments, id)
	return id, nil
}

// Airfoil returns the airfoil with the given handle.
func (p *Project) Airfoil(id AirfoilID) (*Airfoil, error) {
	if id < 0 || int(id) >= len(p.airfoils) {
		return nil, fmt.Errorf("%w: airfoil %d", ErrUnknownHandle, id)
	}
	return p.airfoils[id], nil
}

// LookupAirfoil returns the handle of the named airfoil.
func (p *Project) LookupAirfoil(name string) (AirfoilID, bool) {
	id, ok := p.airfoilNames[name]
	return id, ok
}

// Component returns the component with the given handle.
func (p *Project) Component(id ComponentID) (*Component, error) {
	if id < 0 || int(id) >= len(p.components) {
		return nil, fmt.Errorf("%w: component %d", ErrUnknownHandle, id)
	}
	return p.components[id], nil
}

// Wing returns the wing with the given handle.
func (p *Project) Wing(id WingID) (*Wing, error) {
	if id < 0 || int(id) >= len(p.wings) {
		return nil, fmt.Errorf("%w: wing %d", ErrUnknownHandle, id)
	}
	return p.wings[id], nil
}

// Segment returns the segment with the given handle.
func (p *Project) Segment(id SegmentID) (*Segment, error) {
	if id < 0 || int(id) >= len(p.segments) {
		return nil, fmt.Errorf("%w: segment %d", ErrUnknownHandle, id)
	}
	return p.segments[id], nil
}

// Components returns every component handle in creation order.
func (p *Project) Components() []ComponentID {
	ids := make([]ComponentID, len(p.components))
	for i := range ids {
		ids[i] = ComponentID(i)
	}
	return ids
}

// Wings returns every wing handle in creation order.
func (p *Project) Wings() []WingID {
	ids := make([]WingID, len(p.wings))
	for i := range ids {
		ids[i] = WingID(i)
	}
	return ids
}

// AirfoilCount returns the size of the airfoil library.
func (p *Project) AirfoilCount() int { return len(p.airfoils) }

// SegmentCount returns the number of segments across all wings.
func (p *Project) SegmentCount() int { return len(p.segments) }

// ComponentContext carries the component-level placement into segment updates.
type ComponentContext struct {
	Origin v3.Vec
}

// WingContext carries the full parent chain into segment updates.
type WingContext struct {
	Component ComponentContext
	Origin    v3.Vec
}

// LocalOrigin is the wing origin in project coordinates: the point segments
// rotate about.
func (c WingContext) LocalOrigin() v3.Vec {
	return c.Component.Origin.Add(c.Origin)
}

// WingContext resolves the parent chain of wing w.
func (p *Project) WingContext(w WingID) (WingContext, error) {
	wing, err := p.Wing(w)
	if err != nil {
		return WingContext{}, err
	}
	comp, err := p.Component(wing.Component)
	if err != nil {
		return WingContext{}, err
	}
	return WingContext{
		Component: ComponentContext{Origin: comp.Origin},
		Origin:    wing.Origin,
	}, nil
}
