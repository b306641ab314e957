package fcp7

import (
	"math"
	"strconv"

	"github.com/beevik/etree"

	"fcpbridge/internal/xmlschema"
)

const (
	pixelAspectRatio = "square"
	colorDepth       = "24"
	anamorphic       = "FALSE"
	audioDepth       = "16"
	channelCount     = "2"
	fieldDominance   = "none"
	xmemlVersion     = "4"
)

func textChild(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

func intChild(parent *etree.Element, tag string, value int64) *etree.Element {
	return textChild(parent, tag, strconv.FormatInt(value, 10))
}

func rateElement(parent *etree.Element, timebase int64, ntsc bool) {
	rate := parent.CreateElement("rate")
	intChild(rate, "timebase", timebase)
	textChild(rate, "ntsc", xmlschema.FormatBool(ntsc))
}

func audioCharacteristics(parent *etree.Element, sampleRate int) {
	schar := parent.CreateElement("samplecharacteristics")
	textChild(schar, "depth", audioDepth)
	intChild(schar, "samplerate", int64(sampleRate))
}

func parameter(effect *etree.Element, id, lo, hi, value string) {
	param := effect.CreateElement("parameter")
	param.CreateAttr("authoringApp", "PremierePro")
	textChild(param, "parameterid", id)
	textChild(param, "name", id)
	if lo != "" {
		textChild(param, "valuemin", lo)
		textChild(param, "valuemax", hi)
	}
	textChild(param, "value", value)
}

// timeRemap builds the Premiere "Time Remap" filter for a clip played at
// percent of normal speed.
func timeRemap(percent float64) *etree.Element {
	filter := etree.NewElement("filter")
	effect := filter.CreateElement("effect")
	textChild(effect, "name", "Time Remap")
	textChild(effect, "effectid", "timeremap")

	parameter(effect, "variablespeed", "0", "1", "0")
	parameter(effect, "speed", "-100000", "100000", strconv.FormatFloat(math.Round(percent*1e6)/1e6, 'f', -1, 64))
	parameter(effect, "frameblending", "", "", "FALSE")
	return filter
}
