// Package upset detects giant-killing wins in completed bracket matches.
package upset

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithChallengerMax sets the highest score still counted as a challenger.
func WithChallengerMax(score int) Option {
	return func(d *Detector) {
		if score > 0 {
			d.challengerMax = score
		}
	}
}

// WithGiantMin sets the lowest score counted as a giant.
func WithGiantMin(score int) Option {
	return func(d *Detector) {
		if score > 0 {
			d.giantMin = score
		}
	}
}

// WithBonus sets the points awarded per upset on a standard event.
func WithBonus(points int) Option {
	return func(d *Detector) {
		if points > 0 {
			d.bonus = points
		}
	}
}
