package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/hwcctl/internal/client"
	"github.com/danmuck/hwcctl/internal/hwcs"
)

// outcome is what one command reports: the call status and an optional
// rendered result.
type outcome struct {
	status hwcs.Status
	detail string
}

func statusOf(st hwcs.Status) (outcome, error) {
	return outcome{status: st}, nil
}

// answer reports a query that has no status of its own.
func answer(format string, args ...any) (outcome, error) {
	return outcome{status: hwcs.StatusOK, detail: fmt.Sprintf(format, args...)}, nil
}

type command struct {
	usage string
	nargs int
	run   func(s *client.Session, args []string) (outcome, error)
}

var commands = map[string]command{
	"version": {usage: "version", run: func(s *client.Session, _ []string) (outcome, error) {
		v := client.GetHwcVersion(s)
		if v == "" {
			v = "(unset)"
		}
		return answer("%s", v)
	}},
	"options": {usage: "options", run: func(s *client.Session, _ []string) (outcome, error) {
		var out string
		st := client.DumpOptions(s, &out)
		return outcome{status: st, detail: strings.TrimRight(out, "\n")}, nil
	}},
	"option set": {usage: "option set <key> <value>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		return statusOf(client.SetOption(s, a[0], a[1]))
	}},
	"logview": {usage: "logview <on|off>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		on, err := parseBool("toggle", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.EnableLogviewToLogcat(s, on))
	}},

	"overscan get": {usage: "overscan get <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		var x, y int32
		st := client.DisplayGetOverscan(s, d, &x, &y)
		return outcome{status: st, detail: fmt.Sprintf("x=%d y=%d", x, y)}, nil
	}},
	"overscan set": {usage: "overscan set <display> <x> <y>", nargs: 3, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		x, err := parseI32("x overscan", a[1])
		if err != nil {
			return outcome{}, err
		}
		y, err := parseI32("y overscan", a[2])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplaySetOverscan(s, d, x, y))
	}},
	"scaling get": {usage: "scaling get <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		var mode hwcs.ScalingMode
		st := client.DisplayGetScaling(s, d, &mode)
		return outcome{status: st, detail: mode.String()}, nil
	}},
	"scaling set": {usage: "scaling set <display> <centre|stretch|fit|fill>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		mode, err := parseScaling(a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplaySetScaling(s, d, mode))
	}},
	"blank": {usage: "blank <display> <on|off>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		on, err := parseBool("blank", a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplayEnableBlank(s, d, on))
	}},
	"color get": {usage: "color get <display> <control>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		c, err := parseColor(a[1])
		if err != nil {
			return outcome{}, err
		}
		var v, lo, hi float32
		st := client.DisplayGetColorParam(s, d, c, &v, &lo, &hi)
		return outcome{status: st, detail: fmt.Sprintf("%s=%g range=[%g,%g]", c, v, lo, hi)}, nil
	}},
	"color set": {usage: "color set <display> <control> <value>", nargs: 3, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		c, err := parseColor(a[1])
		if err != nil {
			return outcome{}, err
		}
		v, err := parseF32("value", a[2])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplaySetColorParam(s, d, c, v))
	}},
	"color restore": {usage: "color restore <display> <control>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		c, err := parseColor(a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplayRestoreDefaultColorParam(s, d, c))
	}},
	"deinterlace set": {usage: "deinterlace set <display> <mode>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		m, err := parseDeinterlace(a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplaySetDeinterlaceParam(s, d, m))
	}},
	"deinterlace restore": {usage: "deinterlace restore <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplayRestoreDefaultDeinterlaceParam(s, d))
	}},
	"modes": {usage: "modes <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		var modes []hwcs.DisplayModeInfo
		st := client.DisplayModeGetAvailableModes(s, d, &modes)
		lines := make([]string, 0, len(modes))
		for i, m := range modes {
			marker := " "
			if m.Flags&hwcs.ModeFlagCurrent != 0 {
				marker = "*"
			}
			lines = append(lines, fmt.Sprintf("%s%2d  %s", marker, i, m))
		}
		return outcome{status: st, detail: strings.Join(lines, "\n")}, nil
	}},
	"mode get": {usage: "mode get <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		var m hwcs.DisplayModeInfo
		st := client.DisplayModeGetMode(s, d, &m)
		return outcome{status: st, detail: m.String()}, nil
	}},
	"mode set": {usage: "mode set <display> <index>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		idx, err := parseU32("mode index", a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DisplayModeSetMode(s, d, idx))
	}},

	"connector": {usage: "connector <id>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		c, err := parseU32("connector", a[0])
		if err != nil {
			return outcome{}, err
		}
		return answer("display=%d", client.GetDisplayIDFromConnectorID(s, c))
	}},
	"drm commit": {usage: "drm commit <display> <on|off>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		on, err := parseBool("commit", a[1])
		if err != nil {
			return outcome{}, err
		}
		return answer("%t", client.EnableDRMCommit(s, on, d))
	}},
	"drm master": {usage: "drm master <drop|acquire>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		var drop bool
		switch strings.ToLower(a[0]) {
		case "drop":
			drop = true
		case "acquire":
		default:
			return outcome{}, fmt.Errorf("invalid drm master action %q", a[0])
		}
		return answer("%t", client.ResetDrmMaster(s, drop))
	}},

	"hdcp enable": {usage: "hdcp enable <connector|all> <type0|type1>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		conn, all, err := parseTarget(a[0])
		if err != nil {
			return outcome{}, err
		}
		ct, err := parseContent(a[1])
		if err != nil {
			return outcome{}, err
		}
		if all {
			return statusOf(client.VideoEnableHDCPSessionForAllDisplays(s, ct))
		}
		return statusOf(client.VideoEnableHDCPSessionForDisplay(s, conn, ct))
	}},
	"hdcp disable": {usage: "hdcp disable <connector|all>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		conn, all, err := parseTarget(a[0])
		if err != nil {
			return outcome{}, err
		}
		if all {
			return statusOf(client.VideoDisableHDCPSessionForAllDisplays(s))
		}
		return statusOf(client.VideoDisableHDCPSessionForDisplay(s, conn))
	}},
	"hdcp srm": {usage: "hdcp srm <connector|all> <file>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		conn, all, err := parseTarget(a[0])
		if err != nil {
			return outcome{}, err
		}
		srm, err := readSRM(a[1])
		if err != nil {
			return outcome{}, err
		}
		if all {
			return statusOf(client.VideoSetHDCPSRMForAllDisplays(s, srm, uint32(len(srm))))
		}
		return statusOf(client.VideoSetHDCPSRMForDisplay(s, conn, srm, uint32(len(srm))))
	}},

	"encrypted enable": {usage: "encrypted enable <session> <instance>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		sid, iid, err := sessionPair(a)
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.VideoEnableEncryptedSession(s, sid, iid))
	}},
	"encrypted disable": {usage: "encrypted disable <session|all>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		if strings.EqualFold(a[0], "all") {
			return statusOf(client.VideoDisableAllEncryptedSessions(s))
		}
		sid, err := parseU32("session", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.VideoDisableEncryptedSession(s, sid))
	}},
	"encrypted status": {usage: "encrypted status <session> <instance>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		sid, iid, err := sessionPair(a)
		if err != nil {
			return outcome{}, err
		}
		return answer("%t", client.VideoIsEncryptedSessionEnabled(s, sid, iid))
	}},
	"optimize": {usage: "optimize <normal|video|camera>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		m, err := parseOptimization(a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.VideoSetOptimizationMode(s, m))
	}},

	"mds video-state": {usage: "mds video-state <video-session> <prepared>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		vs, err := parseI64("video session", a[0])
		if err != nil {
			return outcome{}, err
		}
		prepared, err := parseBool("prepared", a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.MdsUpdateVideoState(s, vs, prepared))
	}},
	"mds fps": {usage: "mds fps <video-session> <fps>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		vs, err := parseI64("video session", a[0])
		if err != nil {
			return outcome{}, err
		}
		fps, err := parseI32("fps", a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.MdsUpdateVideoFPS(s, vs, fps))
	}},
	"mds input": {usage: "mds input <on|off>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		on, err := parseBool("input state", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.MdsUpdateInputState(s, on))
	}},

	"widi get": {usage: "widi get", run: func(s *client.Session, _ []string) (outcome, error) {
		var on bool
		st := client.WidiGetSingleDisplay(s, &on)
		return outcome{status: st, detail: fmt.Sprintf("single_display=%t", on)}, nil
	}},
	"widi set": {usage: "widi set <on|off>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		on, err := parseBool("single display", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.WidiSetSingleDisplay(s, on))
	}},

	"panorama trigger": {usage: "panorama trigger <hotplug-sim>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		h, err := parseU32("hotplug simulation", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.TriggerPanorama(s, h))
	}},
	"panorama shutdown": {usage: "panorama shutdown <hotplug-sim>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		h, err := parseU32("hotplug simulation", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.ShutdownPanorama(s, h))
	}},

	"diag enable": {usage: "diag enable <display>", nargs: 1, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DiagEnableDisplay(s, d))
	}},
	"diag disable": {usage: "diag disable <display> <blank>", nargs: 2, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		blank, err := parseBool("blank", a[1])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DiagDisableDisplay(s, d, blank))
	}},
	"diag mask": {usage: "diag mask <display> <layer> <hide>", nargs: 3, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		layer, err := parseU32("layer", a[1])
		if err != nil {
			return outcome{}, err
		}
		hide, err := parseBool("hide", a[2])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DiagMaskLayer(s, d, layer, hide))
	}},
	"diag dump": {usage: "diag dump <display> <frames> <sync>", nargs: 3, run: func(s *client.Session, a []string) (outcome, error) {
		d, err := parseU32("display", a[0])
		if err != nil {
			return outcome{}, err
		}
		frames, err := parseI32("frames", a[1])
		if err != nil {
			return outcome{}, err
		}
		sync, err := parseBool("sync", a[2])
		if err != nil {
			return outcome{}, err
		}
		return statusOf(client.DiagDumpFrames(s, d, frames, sync))
	}},
	"diag log": {usage: "diag log", run: func(s *client.Session, _ []string) (outcome, error) {
		var parcel []byte
		st := client.DiagReadLogParcel(s, &parcel)
		return outcome{status: st, detail: strings.TrimRight(string(parcel), "\n")}, nil
	}},
}

func sessionPair(a []string) (uint32, uint32, error) {
	sid, err := parseU32("session", a[0])
	if err != nil {
		return 0, 0, err
	}
	iid, err := parseU32("instance", a[1])
	if err != nil {
		return 0, 0, err
	}
	return sid, iid, nil
}

// lookup resolves a two-word command first, then a one-word command, and
// returns the remaining arguments.
func lookup(args []string) (string, command, []string, bool) {
	if len(args) >= 2 {
		name := args[0] + " " + args[1]
		if cmd, ok := commands[name]; ok {
			return name, cmd, args[2:], true
		}
	}
	if len(args) >= 1 {
		if cmd, ok := commands[args[0]]; ok {
			return args[0], cmd, args[1:], true
		}
	}
	return "", command{}, nil, false
}

func usages() []string {
	out := make([]string, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, cmd.usage)
	}
	sort.Strings(out)
	return out
}
