package rooms

import (
	"math"
	"sort"

	"github.com/tsawler/takeoff/internal/polygon"
	"github.com/tsawler/takeoff/model"
)

// Face is a closed polygon recovered from linework, with the outer rings of
// any disconnected linework nested inside it as holes.
type Face struct {
	Shell []model.Point
	Holes [][]model.Point
}

// Area returns the shell area minus the hole areas.
func (f Face) Area() float64 {
	a := polygon.Area(f.Shell)
	for _, h := range f.Holes {
		a -= polygon.Area(h)
	}
	return a
}

// Perimeter returns the shell length plus hole lengths.
func (f Face) Perimeter() float64 {
	p := polygon.Perimeter(f.Shell)
	for _, h := range f.Holes {
		p += polygon.Perimeter(h)
	}
	return p
}

// Centroid returns the area centroid with holes subtracted.
func (f Face) Centroid() model.Point {
	if len(f.Holes) == 0 {
		return polygon.Centroid(f.Shell)
	}
	as := polygon.Area(f.Shell)
	cs := polygon.Centroid(f.Shell)
	sx, sy, total := as*cs.X, as*cs.Y, as
	for _, h := range f.Holes {
		ah := polygon.Area(h)
		ch := polygon.Centroid(h)
		sx -= ah * ch.X
		sy -= ah * ch.Y
		total -= ah
	}
	if total <= 0 {
		return cs
	}
	return model.Pt(sx/total, sy/total)
}

// Contains reports whether p is inside the shell and outside every hole.
func (f Face) Contains(p model.Point) bool {
	if !polygon.Contains(f.Shell, p) {
		return false
	}
	for _, h := range f.Holes {
		if polygon.Contains(h, p) {
			return false
		}
	}
	return true
}

// Line is a straight piece of linework.
type Line struct {
	A, B model.Point
}

// Polygonize returns every bounded face of the planar arrangement formed
// by the lines. Lines are noded at all intersections and overlaps first.
// Dangling edges and bridges between cycles do not bound any face and are
// discarded. Faces are returned in a deterministic order.
func Polygonize(lines []Line) []Face {
	g := buildGraph(nodeLines(lines))
	g.prune()

	cycles := g.traceFaces()

	var shells []ring
	var outers []ring
	for _, c := range cycles {
		if c.area > 0 {
			shells = append(shells, c)
		} else if c.area < 0 {
			outers = append(outers, c)
		}
	}

	faces := make([]Face, len(shells))
	for i, s := range shells {
		faces[i] = Face{Shell: s.points}
	}

	// The outer ring of each component becomes a hole of the smallest face
	// of another component that contains it.
	for _, o := range outers {
		probe := o.points[0]
		best := -1
		for i, s := range shells {
			if s.component == o.component {
				continue
			}
			if !polygon.Contains(s.points, probe) {
				continue
			}
			if best < 0 || s.area < shells[best].area {
				best = i
			}
		}
		if best >= 0 {
			faces[best].Holes = append(faces[best].Holes, o.points)
		}
	}

	return faces
}

const vertexPrecision = 1e6

type vertexKey struct{ x, y int64 }

func keyOf(p model.Point) vertexKey {
	return vertexKey{int64(math.Round(p.X * vertexPrecision)), int64(math.Round(p.Y * vertexPrecision))}
}

// nodeLines splits every line at each point where another line touches,
// crosses or overlaps it.
func nodeLines(lines []Line) []Line {
	type split struct {
		t float64
		p model.Point
	}
	lines = nonDegenerate(lines)
	splits := make([][]split, len(lines))
	for i, l := range lines {
		splits[i] = []split{{0, l.A}, {1, l.B}}
	}

	param := func(l Line, p model.Point) float64 {
		r := l.B.Vec().Sub(l.A.Vec())
		d := p.Vec().Sub(l.A.Vec())
		return (d.X*r.X + d.Y*r.Y) / (r.X*r.X + r.Y*r.Y)
	}

	const eps = 1e-9
	for i := range lines {
		a := lines[i]
		ab := model.BBoxOf([]model.Point{a.A, a.B}).Expand(1e-6)
		r := a.B.Vec().Sub(a.A.Vec())
		for j := i + 1; j < len(lines); j++ {
			b := lines[j]
			if !ab.Intersects(model.BBoxOf([]model.Point{b.A, b.B})) {
				continue
			}
			s := b.B.Vec().Sub(b.A.Vec())
			qp := b.A.Vec().Sub(a.A.Vec())
			denom := r.X*s.Y - r.Y*s.X
			scale := r.Length() * s.Length()

			if math.Abs(denom) <= eps*scale {
				// Parallel: only collinear overlaps produce split points
				if math.Abs(qp.X*r.Y-qp.Y*r.X)/r.Length() > 1e-6 {
					continue
				}
				for _, p := range []model.Point{b.A, b.B} {
					if t := param(a, p); t > eps && t < 1-eps {
						splits[i] = append(splits[i], split{t, p})
					}
				}
				for _, p := range []model.Point{a.A, a.B} {
					if u := param(b, p); u > eps && u < 1-eps {
						splits[j] = append(splits[j], split{u, p})
					}
				}
				continue
			}

			t := (qp.X*s.Y - qp.Y*s.X) / denom
			u := (qp.X*r.Y - qp.Y*r.X) / denom
			if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
				continue
			}

			// Snap to an existing endpoint so both lines share one vertex
			var p model.Point
			switch {
			case u <= eps:
				p = b.A
			case u >= 1-eps:
				p = b.B
			case t <= eps:
				p = a.A
			case t >= 1-eps:
				p = a.B
			default:
				p = model.FromVec(a.A.Vec().Add(r.Mul(t)))
			}
			splits[i] = append(splits[i], split{param(a, p), p})
			splits[j] = append(splits[j], split{param(b, p), p})
		}
	}

	var out []Line
	for _, ss := range splits {
		sort.Slice(ss, func(x, y int) bool { return ss[x].t < ss[y].t })
		for k := 1; k < len(ss); k++ {
			if keyOf(ss[k-1].p) == keyOf(ss[k].p) {
				continue
			}
			out = append(out, Line{ss[k-1].p, ss[k].p})
		}
	}
	return out
}

func nonDegenerate(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if keyOf(l.A) != keyOf(l.B) {
			out = append(out, l)
		}
	}
	return out
}

// graph is an undirected planar graph over noded lines.
type graph struct {
	points []model.Point
	adj    []map[int]bool
}

func buildGraph(lines []Line) *graph {
	g := &graph{}
	ids := make(map[vertexKey]int)
	vertex := func(p model.Point) int {
		k := keyOf(p)
		if id, ok := ids[k]; ok {
			return id
		}
		id := len(g.points)
		ids[k] = id
		g.points = append(g.points, p)
		g.adj = append(g.adj, make(map[int]bool))
		return id
	}

	for _, l := range lines {
		a, b := vertex(l.A), vertex(l.B)
		if a == b {
			continue
		}
		g.adj[a][b] = true
		g.adj[b][a] = true
	}
	return g
}

func (g *graph) removeEdge(a, b int) {
	delete(g.adj[a], b)
	delete(g.adj[b], a)
}

// prune removes dangles and bridges until every remaining edge lies on a cycle.
func (g *graph) prune() {
	for {
		g.pruneDangles()
		bridges := g.bridges()
		if len(bridges) == 0 {
			return
		}
		for _, e := range bridges {
			g.removeEdge(e[0], e[1])
		}
	}
}

// pruneDangles repeatedly strips vertices of degree one.
func (g *graph) pruneDangles() {
	var stack []int
	for v := range g.adj {
		if len(g.adj[v]) == 1 {
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(g.adj[v]) != 1 {
			continue
		}
		for w := range g.adj[v] {
			g.removeEdge(v, w)
			if len(g.adj[w]) == 1 {
				stack = append(stack, w)
			}
		}
	}
}

// bridges finds cut edges with Tarjan's low-link method.
func (g *graph) bridges() [][2]int {
	n := len(g.points)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0
	var out [][2]int

	var visit func(v, parent int)
	visit = func(v, parent int) {
		disc[v] = timer
		low[v] = timer
		timer++
		for _, w := range sortedNeighbours(g.adj[v]) {
			if w == parent {
				continue
			}
			if disc[w] >= 0 {
				low[v] = min(low[v], disc[w])
				continue
			}
			visit(w, v)
			low[v] = min(low[v], low[w])
			if low[w] > disc[v] {
				out = append(out, [2]int{v, w})
			}
		}
	}

	for v := 0; v < n; v++ {
		if disc[v] < 0 && len(g.adj[v]) > 0 {
			visit(v, -1)
		}
	}
	return out
}

func sortedNeighbours(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for w := range m {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// ring is one traced face boundary.
type ring struct {
	points    []model.Point
	area      float64
	component int
}

// traceFaces walks every half-edge once. Around each vertex the outgoing
// edges are ordered by angle; the successor of u->v is the edge leaving v
// just before v->u in that order. Bounded faces come out with positive
// signed area and the unbounded face of each component with negative area.
func (g *graph) traceFaces() []ring {
	n := len(g.points)
	order := make([][]int, n)
	pos := make([]map[int]int, n)
	for v := 0; v < n; v++ {
		nb := sortedNeighbours(g.adj[v])
		pv := g.points[v]
		sort.SliceStable(nb, func(i, j int) bool {
			a, b := g.points[nb[i]], g.points[nb[j]]
			return math.Atan2(a.Y-pv.Y, a.X-pv.X) < math.Atan2(b.Y-pv.Y, b.X-pv.X)
		})
		order[v] = nb
		pos[v] = make(map[int]int, len(nb))
		for i, w := range nb {
			pos[v][w] = i
		}
	}

	component := g.components()

	type halfEdge struct{ from, to int }
	visited := make(map[halfEdge]bool)
	var rings []ring

	for u := 0; u < n; u++ {
		for _, v := range order[u] {
			start := halfEdge{u, v}
			if visited[start] {
				continue
			}
			var pts []model.Point
			e := start
			for !visited[e] {
				visited[e] = true
				pts = append(pts, g.points[e.from])
				around := order[e.to]
				i := pos[e.to][e.from]
				next := around[(i-1+len(around))%len(around)]
				e = halfEdge{e.to, next}
			}
			if len(pts) < 3 {
				continue
			}
			closed := polygon.Close(pts)
			rings = append(rings, ring{
				points:    closed,
				area:      polygon.SignedArea(closed),
				component: component[u],
			})
		}
	}
	return rings
}

// components labels each vertex with its connected component.
func (g *graph) components() []int {
	comp := make([]int, len(g.points))
	for i := range comp {
		comp[i] = -1
	}
	next := 0
	for v := range g.points {
		if comp[v] >= 0 {
			continue
		}
		stack := []int{v}
		comp[v] = next
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for w := range g.adj[x] {
				if comp[w] < 0 {
					comp[w] = next
					stack = append(stack, w)
				}
			}
		}
		next++
	}
	return comp
}
