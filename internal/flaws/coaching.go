package flaws

import "github.com/hooplab/shotform/internal/config"

// coachingEntry is the built-in human-facing text for one flaw type. The
// coaching tip can be overridden per deployment through the ideal-shot
// config's remedies table.
type coachingEntry struct {
	description string
	tip         string
	drill       string
}

var coachingText = map[ID]coachingEntry{
	ElbowFlare: {
		description: "Shooting elbow drifts out from under the ball during the upward drive.",
		tip:         "Keep the elbow tucked in line with the rim; the forearm should rise vertically.",
		drill:       "Wall form shooting: stand sideways to a wall so a flared elbow brushes it.",
	},
	InsufficientKneeBend: {
		description: "Knees stay nearly straight at the deepest point of the dip, costing power.",
		tip:         "Sink deeper before rising; shot power starts at the floor, not the arms.",
		drill:       "Chair shots: start seated, stand into each shot to groove a full leg drive.",
	},
	ExcessiveKneeBend: {
		description: "Crouch at the dip is far deeper than needed, slowing the release.",
		tip:         "Ease the crouch; a quicker, shallower dip keeps defenders from closing.",
		drill:       "Mirror dips: rehearse the dip to a marked depth, checking in a mirror.",
	},
	PoorWristSnap: {
		description: "Wrist stays stiff at release instead of snapping through the ball.",
		tip:         "Finish with fingers pointing at the floor and hold the gooseneck.",
		drill:       "Bed shooting: lying down, snap the ball straight up and catch it with backspin.",
	},
	GuideHandThumbFlick: {
		description: "Off-hand thumb pushes the ball during late follow-through.",
		tip:         "The guide hand leaves the ball flat; only the shooting hand imparts spin.",
		drill:       "One-hand form shots with the guide hand held behind the back.",
	},
	GuideHandUnderBall: {
		description: "Guide hand sits underneath the ball at release, creating a two-hand push.",
		tip:         "Slide the guide hand to the side of the ball before the lift begins.",
		drill:       "Ball-side taps: set, check the guide hand is on the ball's equator, then shoot.",
	},
	GuideHandOnTop: {
		description: "Guide hand rides on top of the ball through the load, steering the shot.",
		tip:         "Lower the guide hand beside the ball; it balances, never steers.",
		drill:       "Form shooting from a ball rack height hold, guide hand fingertips only.",
	},
	BalanceIssues: {
		description: "Trunk leans off vertical through the shot, drifting the release point.",
		tip:         "Square the stance and finish landing on the same spot you left.",
		drill:       "Line shots: shoot straddling a court line and land straddling it.",
	},
	ShotTimingInefficient: {
		description: "Wrist speed surges well before the release instant, rushing the motion.",
		tip:         "Let the legs start the shot; the wrist accelerates last, not first.",
		drill:       "Slow-motion form shots counting a steady one-two-three rhythm.",
	},
	FollowThroughTiming: {
		description: "Wrist recoils early instead of holding the follow-through.",
		tip:         "Hold the finish until the ball hits the rim.",
		drill:       "Freeze finishes: hold the gooseneck for a full two-count on every rep.",
	},
	EyeTrackingPoor: {
		description: "Head turns away from the target during the rise.",
		tip:         "Pick the rim's near hook and keep eyes on it through release.",
		drill:       "Partner calls a number held behind the rim; read it while shooting.",
	},
	PoorShoulderAlignment: {
		description: "Shoulder line tilts off square to the rim during the load.",
		tip:         "Level the shoulders and face the rim before starting the dip.",
		drill:       "Band squares: light band across the shoulders, dip keeping it level.",
	},
	ShotLacksFluidity: {
		description: "The motion breaks into segments instead of one continuous flow.",
		tip:         "Blend the dip and rise into a single uninterrupted rhythm.",
		drill:       "Metronome shooting: one beat down, one beat up, no pause between.",
	},
}

// coachingFor resolves the human-facing text for a flaw, applying any remedy
// override from the ideal-shot config.
func coachingFor(id ID, ideals *config.IdealShot) coachingEntry {
	entry := coachingText[id]
	if ideals != nil {
		if override := ideals.GetRemedy(string(id)); override != "" {
			entry.tip = override
		}
	}
	return entry
}
