package core

// FrontSensor is the index of the track-edge range finder pointing
// straight ahead.
const FrontSensor = 9

// Sensors is a read-only snapshot of the car telemetry for one tick.
type Sensors struct {
	AngleToTrackAxis      float64     `json:"angle"`
	CurrentLapTime        float64     `json:"curLapTime"`
	Damage                float64     `json:"damage"`
	DistanceFromStartLine float64     `json:"distFromStart"`
	DistanceRaced         float64     `json:"distRaced"`
	Fuel                  float64     `json:"fuel"`
	Gear                  int         `json:"gear"`
	LastLapTime           float64     `json:"lastLapTime"`
	RacePosition          int         `json:"racePos"`
	RPM                   float64     `json:"rpm"`
	Speed                 float64     `json:"speedX"`
	LateralSpeed          float64     `json:"speedY"`
	ZSpeed                float64     `json:"speedZ"`
	TrackEdgeSensors      [19]float64 `json:"track"`
	TrackPosition         float64     `json:"trackPos"`
	WheelSpinVelocity     [4]float64  `json:"wheelSpinVel"`
	Z                     float64     `json:"z"`
}

// FrontDistance is the range reading straight ahead of the car.
func (s *Sensors) FrontDistance() float64 {
	return s.TrackEdgeSensors[FrontSensor]
}

// Command is the vehicle command emitted for one tick.
type Command struct {
	Accelerate  float64
	Brake       float64
	Steering    float64
	Gear        int
	Clutch      float64
	RestartRace bool
}
