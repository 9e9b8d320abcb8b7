// Package signs holds the fixed table of traffic sign classes the model predicts.
package signs

// Unknown is returned for indices outside the table.
const Unknown = "Unknown"

// Count is the number of classes the model emits scores for.
const Count = 43

// Sign pairs a class index with its label.
type Sign struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

var labels = [Count]string{
	"Speed limit (20km/h)",
	"Speed limit (30km/h)",
	"Speed limit (50km/h)",
	"Speed limit (60km/h)",
	"Speed limit (70km/h)",
	"Speed limit (80km/h)",
	"End of speed limit (80km/h)",
	"Speed limit (100km/h)",
	"Speed limit (120km/h)",
	"No passing",
	"No passing veh over 3.5 tons",
	"Right-of-way at intersection",
	"Priority road",
	"Yield",
	"Stop",
	"No vehicles",
	"Veh > 3.5 tons prohibited",
	"No entry",
	"General caution",
	"Dangerous curve left",
	"Dangerous curve right",
	"Double curve",
	"Bumpy road",
	"Slippery road",
	"Road narrows on the right",
	"Road work",
	"Traffic signals",
	"Pedestrians",
	"Children crossing",
	"Bicycles crossing",
	"Beware of ice/snow",
	"Wild animals crossing",
	"End speed + passing limits",
	"Turn right ahead",
	"Turn left ahead",
	"Ahead only",
	"Go straight or right",
	"Go straight or left",
	"Keep right",
	"Keep left",
	"Roundabout mandatory",
	"End of no passing",
	"End no passing veh > 3.5 tons",
}

// Label returns the label for index i, or Unknown when i is out of range.
func Label(i int) string {
	if i < 0 || i >= Count {
		return Unknown
	}
	return labels[i]
}

// All returns the table in index order. The slice is a fresh copy.
func All() []Sign {
	all := make([]Sign, Count)
	for i, l := range labels {
		all[i] = Sign{Index: i, Label: l}
	}
	return all
}
