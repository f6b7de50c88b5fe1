package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	chimeDuration   = 250 * time.Millisecond
	chimeAttack     = 5 * time.Millisecond
	chimeRelease    = 200 * time.Millisecond
	fanfareNote     = 180 * time.Millisecond
	fanfareLastNote = 600 * time.Millisecond
	crowdPeriod     = 4 * time.Second
)

// oscillator is a finite sine or square wave.
type oscillator struct {
	freq     float64
	phase    float64
	square   bool
	position int
	duration int
	rate     beep.SampleRate
}

// newOscillator creates a tone of the given length. A duration of zero or
// less streams forever.
func newOscillator(freq float64, duration time.Duration, square bool, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		square:   square,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		val := math.Sin(2 * math.Pi * o.phase)
		if o.square {
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over the final release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if releaseStart := e.total - e.release; e.release > 0 && e.position >= releaseStart {
			vol = math.Max(float64(e.total-e.position)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// crowd is a slow swelling murmur looped under play.
type crowd struct {
	rate     beep.SampleRate
	position int
	period   int
	phases   [3]float64
}

var crowdFreqs = [3]float64{110, 164.8, 220}

func newCrowd(rate beep.SampleRate) *crowd {
	return &crowd{rate: rate, period: rate.N(crowdPeriod)}
}

func (c *crowd) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		swell := 0.5 + 0.5*math.Sin(2*math.Pi*float64(c.position%c.period)/float64(c.period))
		val := 0.0
		for k, f := range crowdFreqs {
			val += math.Sin(2 * math.Pi * c.phases[k])
			c.phases[k] += f / float64(c.rate)
			c.phases[k] -= math.Floor(c.phases[k])
		}
		val *= 0.1 * swell / float64(len(crowdFreqs))
		samples[i][0] = val
		samples[i][1] = val
		c.position++
	}
	return len(samples), true
}

func (c *crowd) Err() error { return nil }

// newVolume scales a stream linearly; vol <= 0 silences it.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// partial is a sine of the chime's length, falling back to the local
// oscillator when the generator rejects the frequency.
func partial(freq float64, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return newOscillator(freq, chimeDuration, false, rate)
	}
	return beep.Take(rate.N(chimeDuration), sine)
}

// CollectChime is the two-partial ding played when a ball is picked up.
func CollectChime(rate beep.SampleRate, vol float64) beep.Streamer {
	fund := newEnvelope(partial(880, rate), chimeDuration, chimeAttack, chimeRelease, rate)
	over := newEnvelope(partial(1760, rate), chimeDuration, chimeAttack, chimeRelease/2, rate)
	return newVolume(beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3)), vol)
}

// VictoryFanfare is a rising C major arpeggio.
func VictoryFanfare(rate beep.SampleRate, vol float64) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	parts := make([]beep.Streamer, 0, len(notes))
	for i, f := range notes {
		d := fanfareNote
		if i == len(notes)-1 {
			d = fanfareLastNote
		}
		parts = append(parts, newEnvelope(newOscillator(f, d, true, rate), d, chimeAttack, d/2, rate))
	}
	return newVolume(beep.Seq(parts...), vol*0.5)
}
