package model

import "testing"

func TestFlowRecord_MeanDelayAndJitter(t *testing.T) {
	f := FlowRecord{
		RxPackets:        4,
		DelaySumSeconds:  0.8,
		JitterSumSeconds: 0.2,
	}
	if got := f.MeanDelaySeconds(); got != 0.2 {
		t.Errorf("MeanDelaySeconds = %v, want 0.2", got)
	}
	if got := f.MeanJitterSeconds(); got != 0.05 {
		t.Errorf("MeanJitterSeconds = %v, want 0.05", got)
	}
}

func TestFlowRecord_MeanDelayZeroPackets(t *testing.T) {
	f := FlowRecord{DelaySumSeconds: 1.5}
	if got := f.MeanDelaySeconds(); got != 0 {
		t.Errorf("MeanDelaySeconds with zero rx packets = %v, want 0", got)
	}
	if got := f.MeanJitterSeconds(); got != 0 {
		t.Errorf("MeanJitterSeconds with zero rx packets = %v, want 0", got)
	}
}

func TestSINRDomain_String(t *testing.T) {
	if got := SINRDomainLinear.String(); got != "linear" {
		t.Errorf("SINRDomainLinear.String = %q, want %q", got, "linear")
	}
	if got := SINRDomainDB.String(); got != "dB" {
		t.Errorf("SINRDomainDB.String = %q, want %q", got, "dB")
	}
}
