package features

import (
	"fmt"
	"math"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/linalg"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/mocap"
	"github.com/gaitlab/gait-analyzer/model"
)

// SpatialFeatures computes the geometry-derived features of each cycle: step
// length, step width, minimal toe clearance and the anterio-posterior and
// medio-lateral margins of stability. Marker roles are selected by the
// cycle's context.
type SpatialFeatures struct {
	config *mapping.Config
}

// NewSpatialFeatures builds a spatial calculator for a marker mapping.
func NewSpatialFeatures(config *mapping.Config) *SpatialFeatures {
	return &SpatialFeatures{config: config}
}

type sideMarkers struct {
	ipsiMeta2   mapping.Marker
	ipsiMeta5   mapping.Marker
	ipsiHeel    mapping.Marker
	ipsiAnkle   mapping.Marker
	contraMeta2 mapping.Marker
	contraAnkle mapping.Marker
}

func markersForContext(context string) sideMarkers {
	if context == "Right" {
		return sideMarkers{
			ipsiMeta2:   mapping.RMeta2,
			ipsiMeta5:   mapping.RMeta5,
			ipsiHeel:    mapping.RHeel,
			ipsiAnkle:   mapping.RAnkle,
			contraMeta2: mapping.LMeta2,
			contraAnkle: mapping.LAnkle,
		}
	}
	return sideMarkers{
		ipsiMeta2:   mapping.LMeta2,
		ipsiMeta5:   mapping.LMeta5,
		ipsiHeel:    mapping.LHeel,
		ipsiAnkle:   mapping.LAnkle,
		contraMeta2: mapping.RMeta2,
		contraAnkle: mapping.RAnkle,
	}
}

// CalculateCycle computes the spatial feature vector of one cycle.
func (s *SpatialFeatures) CalculateCycle(trial *model.Trial) (*model.Array, error) {
	table := trial.Events()
	if table == nil {
		return nil, &events.MissingEventsError{}
	}
	et, err := GetEventTimes(table)
	if err != nil {
		return nil, err
	}
	side := markersForContext(table.Context)

	stepLength, err := s.stepLength(trial, et, side)
	if err != nil {
		return nil, fmt.Errorf("step length: %w", err)
	}
	stepWidth, err := s.stepWidth(trial, et, side)
	if err != nil {
		return nil, fmt.Errorf("step width: %w", err)
	}
	toeClearance, err := s.minimalToeClearance(trial, et, side)
	if err != nil {
		return nil, fmt.Errorf("minimal toe clearance: %w", err)
	}
	apMargin, err := s.marginOfStability(trial, et, side.ipsiMeta2, side.contraMeta2, progressionAxis)
	if err != nil {
		return nil, fmt.Errorf("AP margin of stability: %w", err)
	}
	mlMargin, err := s.marginOfStability(trial, et, side.ipsiAnkle, side.contraAnkle, sagittalAxis)
	if err != nil {
		return nil, fmt.Errorf("ML margin of stability: %w", err)
	}

	return resultFromValues([]FeatureValue{
		{"step_length", stepLength},
		{"step_width", stepWidth},
		{"minimal_toe_clearance", toeClearance},
		{"AP_margin_of_stability", apMargin},
		{"ML_margin_of_stability", mlMargin},
	}), nil
}

// stepLength projects both forefoot markers at the cycle-end event onto the
// normalized progression axis and measures the distance between the
// projections.
func (s *SpatialFeatures) stepLength(trial *model.Trial, et EventTimes, side sideMarkers) (float64, error) {
	ipsi, err := s.markerAt(trial, side.ipsiMeta2, et.IpsiStrikeEnd)
	if err != nil {
		return 0, err
	}
	contra, err := s.markerAt(trial, side.contraMeta2, et.IpsiStrikeEnd)
	if err != nil {
		return 0, err
	}
	progression, err := mocap.GetProgressionVector(trial, s.config)
	if err != nil {
		return 0, err
	}
	axis := linalg.Normalize(progression)
	projectedIpsi := linalg.ProjectPointOnVector(ipsi, axis)
	projectedContra := linalg.ProjectPointOnVector(contra, axis)
	return linalg.Distance(projectedIpsi, projectedContra), nil
}

// stepWidth measures the perpendicular offset of the ipsi-lateral forefoot
// from the contra-lateral line of progression, defined by the contra marker's
// displacement between cycle start and contra foot-strike.
func (s *SpatialFeatures) stepWidth(trial *model.Trial, et EventTimes, side sideMarkers) (float64, error) {
	contra, err := mocap.GetMarkerData(trial, s.config, side.contraMeta2)
	if err != nil {
		return 0, err
	}
	atStrike, err := pointAt(contra, et.ContraStrike)
	if err != nil {
		return 0, err
	}
	atStart, err := pointAt(contra, et.IpsiStrikeStart)
	if err != nil {
		return 0, err
	}
	direction := make([]float64, len(atStrike))
	for i := range direction {
		direction[i] = atStrike[i] - atStart[i]
	}

	ipsi, err := s.markerAt(trial, side.ipsiMeta2, et.IpsiStrikeEnd)
	if err != nil {
		return 0, err
	}
	axis := linalg.Normalize(direction)
	projected := linalg.ProjectPointOnVector(ipsi, axis)
	return linalg.Distance(ipsi, projected), nil
}

// minimalToeClearance finds the lowest vertical position of the forefoot
// markers during swing among local minima that coincide with fast toe motion
// (at or above the median of the averaged toe speed) while the toe is at or
// below heel height. NaN when no minimum qualifies for either marker.
func (s *SpatialFeatures) minimalToeClearance(trial *model.Trial, et EventTimes, side sideMarkers) (float64, error) {
	heel, err := s.swingWindow(trial, side.ipsiHeel, et)
	if err != nil {
		return 0, err
	}
	meta2, err := s.swingWindow(trial, side.ipsiMeta2, et)
	if err != nil {
		return 0, err
	}
	meta5, err := s.swingWindow(trial, side.ipsiMeta5, et)
	if err != nil {
		return 0, err
	}

	meta2Speed, err := linalg.SpeedNorm(meta2)
	if err != nil {
		return 0, err
	}
	meta5Speed, err := linalg.SpeedNorm(meta5)
	if err != nil {
		return 0, err
	}
	if len(meta2Speed) != len(meta5Speed) {
		return 0, fmt.Errorf("forefoot trajectories have mismatched lengths")
	}
	toeSpeed := make([]float64, len(meta2Speed))
	for i := range toeSpeed {
		toeSpeed[i] = (meta2Speed[i] + meta5Speed[i]) / 2
	}
	threshold := median(toeSpeed)

	heelZ, err := verticalSeries(heel)
	if err != nil {
		return 0, err
	}
	meta2Z, err := verticalSeries(meta2)
	if err != nil {
		return 0, err
	}
	meta5Z, err := verticalSeries(meta5)
	if err != nil {
		return 0, err
	}

	idx2 := toeClearanceIndex(meta2Z, heelZ, toeSpeed, threshold)
	idx5 := toeClearanceIndex(meta5Z, heelZ, toeSpeed, threshold)
	switch {
	case idx2 < 0 && idx5 < 0:
		return math.NaN(), nil
	case idx2 < 0:
		return meta5Z[idx5], nil
	case idx5 < 0:
		return meta2Z[idx2], nil
	default:
		return math.Min(meta2Z[idx2], meta5Z[idx5]), nil
	}
}

// toeClearanceIndex returns the index of the lowest qualifying local minimum,
// or -1 when none qualifies. Ties keep the earliest sample.
func toeClearanceIndex(toeZ, heelZ, toeSpeed []float64, threshold float64) int {
	best := -1
	for _, i := range linalg.FindLocalMinima(toeZ) {
		if toeSpeed[i] < threshold {
			continue
		}
		if toeZ[i] > heelZ[i] {
			continue
		}
		if best < 0 || toeZ[i] < toeZ[best] {
			best = i
		}
	}
	return best
}

type stabilityAxis int

const (
	progressionAxis stabilityAxis = iota
	sagittalAxis
)

// marginOfStability projects the base-of-support markers and the extrapolated
// center of mass at the cycle-start event onto a stability axis. The margin
// is the base-of-support length minus the center-of-mass excursion from the
// contra-lateral boundary; positive values indicate a stable margin.
func (s *SpatialFeatures) marginOfStability(trial *model.Trial, et EventTimes, ipsiRole, contraRole mapping.Marker, axisKind stabilityAxis) (float64, error) {
	ipsi, err := s.markerAt(trial, ipsiRole, et.IpsiStrikeStart)
	if err != nil {
		return 0, err
	}
	contra, err := s.markerAt(trial, contraRole, et.IpsiStrikeStart)
	if err != nil {
		return 0, err
	}
	xcom, err := s.markerAt(trial, mapping.XCom, et.IpsiStrikeStart)
	if err != nil {
		return 0, err
	}

	var axis []float64
	switch axisKind {
	case progressionAxis:
		axis, err = mocap.GetProgressionVector(trial, s.config)
	case sagittalAxis:
		axis, err = mocap.GetSagittalVector(trial, s.config)
	}
	if err != nil {
		return 0, err
	}
	axis = linalg.Normalize(axis)

	projectedIpsi := linalg.ProjectPointOnVector(ipsi, axis)
	projectedContra := linalg.ProjectPointOnVector(contra, axis)
	projectedXCom := linalg.ProjectPointOnVector(xcom, axis)

	baseOfSupport := linalg.Distance(projectedIpsi, projectedContra)
	excursion := linalg.Distance(projectedContra, projectedXCom)
	return baseOfSupport - excursion, nil
}

func (s *SpatialFeatures) markerAt(trial *model.Trial, role mapping.Marker, t float64) ([]float64, error) {
	marker, err := mocap.GetMarkerData(trial, s.config, role)
	if err != nil {
		return nil, err
	}
	return pointAt(marker, t)
}

func (s *SpatialFeatures) swingWindow(trial *model.Trial, role mapping.Marker, et EventTimes) (*model.Array, error) {
	marker, err := mocap.GetMarkerData(trial, s.config, role)
	if err != nil {
		return nil, err
	}
	return marker.SliceCoords("time", et.IpsiOff, et.IpsiStrikeEnd)
}

// pointAt samples a {axis, time} trajectory at the nearest time coordinate.
func pointAt(marker *model.Array, t float64) ([]float64, error) {
	idx, err := marker.NearestIndex("time", t)
	if err != nil {
		return nil, err
	}
	point, err := marker.SelectIndex("time", idx)
	if err != nil {
		return nil, err
	}
	return point.Values(), nil
}

func verticalSeries(marker *model.Array) ([]float64, error) {
	series, err := marker.SelectLabel("axis", "z")
	if err != nil {
		return nil, err
	}
	return series.Values(), nil
}
