package section

import (
	"math"
	"sort"
)

// CalculateProperties computes geometric properties of the section
func (s *Section) CalculateProperties() *SectionProperties {
	props := &SectionProperties{}

	if len(s.Vertices) < 3 {
		return props
	}

	// Find bounding box
	props.MinX, props.MaxX = s.Vertices[0].X, s.Vertices[0].X
	props.MinY, props.MaxY = s.Vertices[0].Y, s.Vertices[0].Y

	for _, v := range s.Vertices {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.Width = props.MaxX - props.MinX
	props.Height = props.MaxY - props.MinY

	// Calculate area and centroid using the shoelace formula
	props.Area, props.CentroidX, props.CentroidY = s.calculateAreaAndCentroid()
	props.Inertia = polygonInertia(s.Vertices, props.CentroidY)

	// Calculate reinforcement properties
	s.calculateReinforcementProperties(props)

	return props
}

// calculateAreaAndCentroid uses the shoelace formula
func (s *Section) calculateAreaAndCentroid() (area, cx, cy float64) {
	return polygonAreaCentroid(s.Vertices)
}

func polygonAreaCentroid(vs []Point) (area, cx, cy float64) {
	n := len(vs)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
		signedArea += cross
		sumX += (vs[i].X + vs[j].X) * cross
		sumY += (vs[i].Y + vs[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// polygonInertia returns the second moment of area about the line y = yRef
func polygonInertia(vs []Point, yRef float64) float64 {
	n := len(vs)
	if n < 3 {
		return 0
	}
	var ix, signedArea float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		y1, y2 := vs[i].Y-yRef, vs[j].Y-yRef
		cross := vs[i].X*y2 - vs[j].X*y1
		signedArea += cross
		ix += cross * (y1*y1 + y1*y2 + y2*y2)
	}
	ix /= 12
	if signedArea < 0 {
		ix = -ix
	}
	return ix
}

// calculateReinforcementProperties calculates steel areas and effective depth
func (s *Section) calculateReinforcementProperties(props *SectionProperties) {
	if len(s.Reinforcement) == 0 {
		return
	}

	// Find the neutral axis estimate (mid-height for initial classification)
	midHeight := (props.MinY + props.MaxY) / 2

	var tensionArea, tensionMoment float64
	var compressionArea, compressionMoment float64

	for _, layer := range s.Reinforcement {
		if isCompression(layer, midHeight) {
			compressionArea += layer.Area
			compressionMoment += layer.Area * layer.Y
		} else {
			tensionArea += layer.Area
			tensionMoment += layer.Area * layer.Y
		}
	}

	props.TotalTensionSteel = tensionArea
	props.TotalCompressionSteel = compressionArea

	// Effective depth to centroid of tension steel
	if tensionArea > 0 {
		props.EffectiveDepth = props.MaxY - tensionMoment/tensionArea
	}

	// Cover to compression steel
	if compressionArea > 0 {
		props.CompressionCover = props.MaxY - compressionMoment/compressionArea
	}
}

func isCompression(layer RebarLayer, midHeight float64) bool {
	return layer.Type == "compression" || (layer.Type == "" && layer.Y > midHeight)
}

// WidthAtDepth calculates the width of the section at a given depth from top
// Uses horizontal line intersection with the polygon
func (s *Section) WidthAtDepth(depthFromTop float64) float64 {
	return s.widthAtY(s.top() - depthFromTop)
}

func (s *Section) top() float64 {
	top := math.Inf(-1)
	for _, v := range s.Vertices {
		top = math.Max(top, v.Y)
	}
	return top
}

// widthAtY calculates the width at a specific Y coordinate
func (s *Section) widthAtY(y float64) float64 {
	intersections := s.findIntersectionsAtY(y)

	if len(intersections) < 2 {
		return 0
	}

	sort.Float64s(intersections)

	// Total width is the sum of all segments
	var totalWidth float64
	for i := 0; i+1 < len(intersections); i += 2 {
		totalWidth += intersections[i+1] - intersections[i]
	}

	return totalWidth
}

// findIntersectionsAtY finds all X coordinates where a horizontal line at Y intersects the polygon
func (s *Section) findIntersectionsAtY(y float64) []float64 {
	var intersections []float64
	n := len(s.Vertices)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v1, v2 := s.Vertices[i], s.Vertices[j]

		// Check if the edge crosses the Y level
		if (v1.Y <= y && v2.Y > y) || (v2.Y <= y && v1.Y > y) {
			t := (y - v1.Y) / (v2.Y - v1.Y)
			intersections = append(intersections, v1.X+t*(v2.X-v1.X))
		}
	}

	return intersections
}

// clipAbove returns the part of the polygon with Y >= y
// (Sutherland-Hodgman against one half-plane)
func clipAbove(vs []Point, y float64) []Point {
	var out []Point
	n := len(vs)
	for i := 0; i < n; i++ {
		cur, next := vs[i], vs[(i+1)%n]
		curIn, nextIn := cur.Y >= y, next.Y >= y
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			t := (y - cur.Y) / (next.Y - cur.Y)
			out = append(out, Point{X: cur.X + t*(next.X-cur.X), Y: y})
		}
	}
	return out
}

// CompressionBlockArea calculates the area of the section above
// depth a measured from the top
func (s *Section) CompressionBlockArea(a float64) float64 {
	if a <= 0 {
		return 0
	}
	area, _, _ := polygonAreaCentroid(clipAbove(s.Vertices, s.top()-a))
	return area
}

// CompressionBlockCentroid returns the depth from the top to the centroid
// of the part of the section above depth a
func (s *Section) CompressionBlockCentroid(a float64) float64 {
	if a <= 0 {
		return 0
	}
	area, _, cy := polygonAreaCentroid(clipAbove(s.Vertices, s.top()-a))
	if area == 0 {
		return a / 2
	}
	return s.top() - cy
}

// CompressionBlockInertia returns the second moment of the part of the
// section above depth a, taken about the line at depth a
func (s *Section) CompressionBlockInertia(a float64) float64 {
	if a <= 0 {
		return 0
	}
	return polygonInertia(clipAbove(s.Vertices, s.top()-a), s.top()-a)
}
