package engine

import (
	"fmt"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
)

// StressBlocker is implemented by codes that expose their equivalent
// rectangular stress block for strain-compatibility analysis
type StressBlocker interface {
	StressBlock(m material.Grades) section.StressBlock
}

// StressBlock returns the named code's stress block for grades m
func (e *Engine) StressBlock(code string, m material.Grades) (section.StressBlock, error) {
	c, err := e.codes.Get(code)
	if err != nil {
		return section.StressBlock{}, err
	}
	sb, ok := c.(StressBlocker)
	if !ok {
		return section.StressBlock{}, fmt.Errorf("%s does not define a stress block", c.Name())
	}
	return sb.StressBlock(m), nil
}

// Deflection returns the short-term moment and deflection diagram of case
// i of a result designed from req
func (e *Engine) Deflection(req design.Request, res *design.Result, i int) ([]serviceability.Point, error) {
	if i < 0 || i >= len(res.Cases) {
		return nil, fmt.Errorf("case %d out of range (%d cases)", i+1, len(res.Cases))
	}
	code, err := e.codes.Get(res.Code)
	if err != nil {
		return nil, err
	}
	req = req.WithDefaults(e.defaultCode)
	if req.Span.Length <= 0 {
		return nil, fmt.Errorf("request %q has no span", req.Label)
	}
	c := res.Cases[i]
	if c.Detailing.AstProvided <= 0 {
		return nil, fmt.Errorf("case %s has no provided reinforcement", c.Name)
	}
	return serviceability.Shape(code.Serviceability(), serviceability.Input{
		Section:     res.Section,
		Grades:      res.Materials,
		Span:        req.Span.Length,
		Support:     req.Span.Support,
		AstRequired: c.Flexure.AstRequired,
		AstProvided: c.Detailing.AstProvided,
		AscProvided: c.Detailing.AscProvided,
		Bars:        c.Detailing.Bars,
		Stirrup:     c.Shear.Stirrup.Diameter,
		Moment:      c.Flexure.Moment,
		Options:     req.Serviceability,
	}), nil
}
