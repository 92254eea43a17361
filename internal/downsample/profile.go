package downsample

import "fmt"

// GenerateProfile produces the analytic voltage profile along the conductor
// under the linear-drop assumption: voltage falls uniformly from the source
// to the receiving end. The series has n evenly spaced points from distance
// zero to lengthFt inclusive; n below 2 is raised to 2.
func GenerateProfile(systemVoltage, totalDropV, lengthFt float64, n int) []Point {
	if n < 2 {
		n = 2
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		fraction := float64(i) / float64(n-1)
		points[i] = Point{
			Distance: lengthFt * fraction,
			Voltage:  systemVoltage - totalDropV*fraction,
		}
	}
	return points
}

// AxisLabels derives evenly spaced x-axis labels for a reduced series. The
// chart glue renders them verbatim.
func AxisLabels(data []Point, count int) []string {
	if len(data) == 0 || count <= 0 {
		return nil
	}
	if count > len(data) {
		count = len(data)
	}

	labels := make([]string, 0, count)
	step := float64(len(data)-1) / float64(count-1)
	if count == 1 {
		step = 0
	}
	for i := 0; i < count; i++ {
		p := data[int(float64(i)*step)]
		labels = append(labels, fmt.Sprintf("%.0f ft", p.Distance))
	}
	return labels
}
