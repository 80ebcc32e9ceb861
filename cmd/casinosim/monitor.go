package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // served only on the monitor address
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/shirou/gopsutil/process"

	"github.com/AntonStoeckl/casino-floor-simulation/facility"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
)

const maxProfileSeconds = 30

type floorView interface {
	Snapshot() facility.Snapshot
	Audit() error
}

type recorderView interface {
	Stats() shell.RecorderStats
}

type monitor struct {
	floor    floorView
	recorder recorderView
}

func newMonitor(floor floorView, recorder recorderView) *monitor {
	return &monitor{floor: floor, recorder: recorder}
}

func (m *monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/snapshot", m.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/audit", m.audit).Methods(http.MethodGet)
	r.HandleFunc("/api/recorder", m.recorderStats).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.resource).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/{seconds:[0-9]+}", m.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

func startMonitor(addr string, m *monitor, logger *slog.Logger) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("monitor listening", "url", "http://"+listener.Addr().String())

	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("monitor stopped", "error", serveErr.Error())
		}
	}()

	return server, nil
}

func (m *monitor) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.floor.Snapshot())
}

type auditRsp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (m *monitor) audit(w http.ResponseWriter, _ *http.Request) {
	if err := m.floor.Audit(); err != nil {
		writeJSON(w, http.StatusConflict, auditRsp{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, auditRsp{OK: true})
}

func (m *monitor) recorderStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, m.recorder.Stats())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func processResources() (resourceRsp, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec
	if err != nil {
		return resourceRsp{}, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return resourceRsp{}, err
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		return resourceRsp{}, err
	}

	return resourceRsp{CPUPercent: cpuPercent, MemorySize: memory.RSS}, nil
}

func (m *monitor) resource(w http.ResponseWriter, _ *http.Request) {
	rsp, err := processResources()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

// collectProfile samples the CPU for the given number of seconds and returns the parsed profile.
func (m *monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	seconds, err := strconv.Atoi(mux.Vars(r)["seconds"])
	if err != nil || seconds < 1 || seconds > maxProfileSeconds {
		http.Error(w, "seconds must be within 1.."+strconv.Itoa(maxProfileSeconds), http.StatusBadRequest)
		return
	}

	buf := bytes.NewBuffer(nil)
	if err = pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-r.Context().Done():
	}

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
