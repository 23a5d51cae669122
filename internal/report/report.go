// Package report renders inspected WAV headers as text.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/cwbudde/wavinspect"
)

// Printer renders WavHeaders.
type Printer struct {
	// Color enables ANSI colors.
	Color bool
	// ShowOffsets enables the chunk table.
	ShowOffsets bool
}

// ColorEnabled resolves a color mode (auto, always, never) for w. Auto
// colors only terminals.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

// Print writes the report for h to w in a single write.
func (p *Printer) Print(w io.Writer, h *wavinspect.WavHeader) error {
	if h == nil {
		return nil
	}

	var buf bytes.Buffer

	banner := p.style(color.FgYellow, color.Bold, color.Underline)
	section := p.style(color.FgCyan, color.Bold)

	fmt.Fprintf(&buf, "%s %s\n", banner.Sprint("Wav file:"), h.Path)

	if f := h.Format; f != nil {
		fmt.Fprintf(&buf, "%s @ %d Hz, %d bit %s\n",
			channelsLabel(int(f.Channels)), f.SampleRate, f.BitsPerSample, wavinspect.FormatName(f.EffectiveFormatTag()))
	}

	fmt.Fprintln(&buf)
	p.printFormat(&buf, section, h.Format)

	if h.List != nil {
		fmt.Fprintln(&buf)
		printList(&buf, section, h.List)
	}

	if h.Fact != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, section.Sprint("Fact chunk"))
		field(&buf, "Sample length", h.Fact.SampleLength)
	}

	if h.Broadcast != nil {
		fmt.Fprintln(&buf)
		printBroadcast(&buf, section, h.Broadcast)
	}

	if h.Cart != nil {
		fmt.Fprintln(&buf)
		printCart(&buf, section, h.Cart)
	}

	if h.Sampler != nil {
		fmt.Fprintln(&buf)
		printSampler(&buf, section, h.Sampler)
	}

	if h.Cue != nil {
		fmt.Fprintln(&buf)
		printCue(&buf, section, h.Cue)
	}

	if h.HasData {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, section.Sprint("Data chunk"))
		field(&buf, "Size", fmt.Sprintf("%d bytes", h.DataSize))

		if d := h.Duration(); d > 0 {
			field(&buf, "Duration", d)
		}
	}

	if p.ShowOffsets {
		fmt.Fprintln(&buf)
		printChunks(&buf, section, h)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

func (p *Printer) printFormat(w io.Writer, section *color.Color, f *wavinspect.FormatInfo) {
	fmt.Fprintln(w, section.Sprint("Format chunk"))

	if f == nil {
		fmt.Fprintln(w, "  not available")
		return
	}

	field(w, "Format tag", fmt.Sprintf("%d (%s)", f.FormatTag, wavinspect.FormatName(f.FormatTag)))
	field(w, "Channels", f.Channels)
	field(w, "Sample rate", fmt.Sprintf("%d Hz", f.SampleRate))
	field(w, "Byte rate", fmt.Sprintf("%d bytes/s", f.ByteRate))
	field(w, "Block align", f.BlockAlign)
	field(w, "Bits per sample", f.BitsPerSample)

	if fs := f.FullScale(); fs > 0 {
		field(w, "Full scale", fs)
		field(w, "Dynamic range", fmt.Sprintf("%.1f dB", f.DynamicRange()))
	}

	if ext := f.Extension; ext != nil {
		field(w, "Valid bits", ext.ValidBitsPerSample)
		field(w, "Channel mask", fmt.Sprintf("0x%08x", ext.ChannelMask))

		sub := ext.SubFormatString()
		if ext.IsTagGUID() {
			sub = fmt.Sprintf("%s (%s)", sub, wavinspect.FormatName(f.EffectiveFormatTag()))
		}

		field(w, "Sub format", sub)
	}
}

func printList(w io.Writer, section *color.Color, l *wavinspect.ListInfo) {
	fmt.Fprintln(w, section.Sprintf("List chunk (%s)", l.TypeName()))

	if len(l.Entries) == 0 {
		fmt.Fprintln(w, "  no entries")
		return
	}

	for _, e := range l.Entries {
		key := string(e.Tag[:])
		if label := wavinspect.InfoLabel(e.Tag); label != "" {
			key = fmt.Sprintf("%s (%s)", key, label)
		}

		field(w, key, e.Text)
	}
}

func printBroadcast(w io.Writer, section *color.Color, b *wavinspect.BroadcastInfo) {
	fmt.Fprintln(w, section.Sprint("Broadcast extension"))

	for _, f := range []struct{ key, value string }{
		{"Description", b.Description},
		{"Originator", b.Originator},
		{"Reference", b.OriginatorReference},
		{"Origination", strings.TrimSpace(b.OriginationDate + " " + b.OriginationTime)},
	} {
		if f.value != "" {
			field(w, f.key, f.value)
		}
	}

	field(w, "Time reference", b.TimeReference)
	field(w, "Version", b.Version)

	if b.CodingHistory != "" {
		field(w, "Coding history", strings.TrimSpace(b.CodingHistory))
	}
}

func printSampler(w io.Writer, section *color.Color, s *wavinspect.SamplerInfo) {
	fmt.Fprintln(w, section.Sprint("Sampler chunk"))
	field(w, "MIDI unity note", s.MIDIUnityNote)
	field(w, "Sample period", fmt.Sprintf("%d ns", s.SamplePeriod))
	field(w, "Loops", s.NumSampleLoops)

	for i, l := range s.Loops {
		field(w, fmt.Sprintf("Loop %d", i+1), fmt.Sprintf("%d-%d, type %d, play count %d", l.Start, l.End, l.Type, l.PlayCount))
	}
}

func printCart(w io.Writer, section *color.Color, c *wavinspect.CartInfo) {
	fmt.Fprintln(w, section.Sprint("Cart chunk"))

	for _, f := range []struct{ key, value string }{
		{"Version", c.Version},
		{"Title", c.Title},
		{"Artist", c.Artist},
		{"Cut ID", c.CutID},
		{"Client ID", c.ClientID},
		{"Category", c.Category},
		{"Classification", c.Classification},
		{"Out cue", c.OutCue},
		{"Start", strings.TrimSpace(c.StartDate + " " + c.StartTime)},
		{"End", strings.TrimSpace(c.EndDate + " " + c.EndTime)},
		{"Producer", strings.TrimSpace(c.ProducerAppID + " " + c.ProducerAppVersion)},
		{"User defined", c.UserDef},
		{"URL", c.URL},
		{"Tag text", strings.TrimSpace(c.TagText)},
	} {
		if f.value != "" {
			field(w, f.key, f.value)
		}
	}

	if c.LevelReference != 0 {
		field(w, "Level reference", c.LevelReference)
	}

	for _, t := range c.PostTimer {
		if t.Usage != [4]byte{} {
			field(w, fmt.Sprintf("Timer %s", strings.TrimSpace(string(t.Usage[:]))), t.Value)
		}
	}
}

func printCue(w io.Writer, section *color.Color, c *wavinspect.CueInfo) {
	fmt.Fprintln(w, section.Sprint("Cue chunk"))
	field(w, "Cue points", c.NumCuePoints)

	for _, p := range c.Points {
		field(w, fmt.Sprintf("Cue %d", p.ID), fmt.Sprintf("position %d, chunk %q, sample offset %d",
			p.Position, string(p.DataChunkID[:]), p.SampleOffset))
	}
}

func printChunks(w io.Writer, section *color.Color, h *wavinspect.WavHeader) {
	fmt.Fprintln(w, section.Sprint("Chunks"))
	fmt.Fprintf(w, "  %-6s %12s %12s\n", "ID", "Offset", "Size")

	for _, c := range h.Chunks {
		fmt.Fprintf(w, "  %-6q %12d %12d\n", c.Name(), c.Offset, c.Size)
	}

	if h.SizeMismatch() {
		fmt.Fprintf(w, "  RIFF length: declared %d, file %d\n", h.DeclaredLength, h.FileLength)
	}
}

func field(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %-20s %v\n", key+":", value)
}

func channelsLabel(n int) string {
	switch n {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", n)
	}
}
