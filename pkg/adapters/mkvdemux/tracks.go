package mkvdemux

import (
	"fmt"
	"strings"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/dwbuiten/matroska"

	"github.com/user/framegrab/pkg/bitstream"
	"github.com/user/framegrab/pkg/ports"
)

// vfwHeaderSize is the BITMAPINFOHEADER that precedes codec data in
// V_MS/VFW/FOURCC tracks.
const vfwHeaderSize = 40

var codecIDs = map[string]string{
	"V_MPEG4/ISO/AVC":  "h264",
	"V_MPEGH/ISO/HEVC": "hevc",
	"V_AV1":            "av1",
	"V_VP8":            "vp8",
	"V_VP9":            "vp9",
	"V_FFV1":           "ffv1",
	"V_MPEG1":          "mpeg1video",
	"V_MPEG2":          "mpeg2video",
	"V_MPEG4/ISO/ASP":  "mpeg4",
	"V_MJPEG":          "mjpeg",
	"V_UNCOMPRESSED":   "rawvideo",
	"A_AAC":            "aac",
	"A_OPUS":           "opus",
	"A_VORBIS":         "vorbis",
	"A_FLAC":           "flac",
	"A_AC3":            "ac3",
	"A_EAC3":           "eac3",
	"A_MPEG/L3":        "mp3",
	"A_PCM/INT/LIT":    "pcm_s16le",
	"S_TEXT/UTF8":      "subrip",
	"S_TEXT/ASS":       "ass",
}

var vfwFourCCs = map[string]string{
	"FFV1": "ffv1",
	"H264": "h264",
	"MJPG": "mjpeg",
	"XVID": "mpeg4",
}

// canonicalCodec maps a Matroska codec id to a codec id and the codec data
// the decoder expects.
func canonicalCodec(codecID string, private []byte) (string, []byte) {
	if codecID == "V_MS/VFW/FOURCC" {
		if len(private) < vfwHeaderSize {
			return "vfw", private
		}
		fourCC := string(private[16:20])
		name, ok := vfwFourCCs[fourCC]
		if !ok {
			name = strings.ToLower(strings.TrimRight(fourCC, "\x00 "))
		}
		return name, private[vfwHeaderSize:]
	}
	if id, ok := codecIDs[codecID]; ok {
		return id, private
	}
	if strings.HasPrefix(codecID, "A_AAC/") {
		return "aac", private
	}
	return strings.ToLower(codecID), private
}

// describeTrack converts parser track info into a stream descriptor.
func describeTrack(index int, ti *matroska.TrackInfo) (ports.Stream, trackState, error) {
	codec, extradata := canonicalCodec(ti.CodecID, ti.CodecPrivate)
	s := ports.Stream{
		Index:     index,
		Codec:     codec,
		CodecTag:  int(ti.Number),
		TimeBase:  ports.Rational{Num: 1, Den: 1000000000},
		Extradata: extradata,
	}
	state := trackState{codec: codec}

	switch ti.Type {
	case trackTypeVideo:
		s.Params = ports.VideoParams{Width: int(ti.Video.PixelWidth), Height: int(ti.Video.PixelHeight)}
		if ti.DefaultDuration > 0 {
			s.FrameRate = frameRate(ti.DefaultDuration)
		}
	case trackTypeAudio:
		s.Params = ports.AudioParams{Channels: int(ti.Audio.Channels), SampleRate: int(ti.Audio.SamplingFreq)}
	case trackTypeSubtitle:
		s.Params = ports.OtherParams{Kind: "subtitle"}
	default:
		s.Params = ports.OtherParams{Kind: fmt.Sprintf("type %d", ti.Type)}
	}

	if codec == "h264" && len(extradata) > 0 {
		sets, lengthSize, err := avcParameterSets(extradata)
		if err != nil {
			return s, state, err
		}
		state.paramSets = sets
		state.lengthSize = lengthSize
	}
	return s, state, nil
}

// avcParameterSets decodes an AVCDecoderConfigurationRecord into Annex B
// parameter sets and the NAL length size it declares.
func avcParameterSets(record []byte) ([]byte, int, error) {
	if len(record) < 5 {
		return nil, 0, fmt.Errorf("avcC record too short: %d bytes", len(record))
	}
	lengthSize := int(record[4]&0x03) + 1
	// mp4ff only accepts records declaring 4-byte lengths. The declared
	// size does not change the layout of the parameter sets.
	normalized := append([]byte(nil), record...)
	normalized[4] |= 0x03
	conf, err := avc.DecodeAVCDecConfRec(normalized)
	if err != nil {
		return nil, 0, fmt.Errorf("decode avcC: %w", err)
	}
	return bitstream.ParameterSetsToAnnexB(conf.SPSnalus, conf.PPSnalus), lengthSize, nil
}

// frameRate converts a per-frame duration in nanoseconds to frames per second.
func frameRate(defaultDuration uint64) ports.Rational {
	num, den := uint64(1000000000), defaultDuration
	a, b := num, den
	for b != 0 {
		a, b = b, a%b
	}
	return ports.Rational{Num: int(num / a), Den: int(den / a)}
}
